package resolve

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vitalvas/routescope/convention"
	"github.com/vitalvas/routescope/metadata"
)

const testNamespace = "Shop.Api.Controllers"

func ann(typ string, args ...any) metadata.Annotation {
	return metadata.Annotation{Type: typ, Args: args}
}

func method(name string, anns ...metadata.Annotation) *metadata.Method {
	return &metadata.Method{Name: name, Visibility: metadata.VisibilityPublic, Annotations: anns}
}

func controllerType(name string, anns []metadata.Annotation, methods ...*metadata.Method) *metadata.Type {
	return &metadata.Type{
		Name:        name,
		Namespace:   testNamespace,
		Base:        &metadata.TypeRef{Name: BaseControllerBase, Namespace: "Microsoft.AspNetCore.Mvc"},
		Annotations: anns,
		Methods:     methods,
	}
}

func mustManifest(t testing.TB, types ...*metadata.Type) *metadata.Manifest {
	t.Helper()
	m, err := metadata.NewManifest(types...)
	require.NoError(t, err)
	return m
}

func mustRoutes(t testing.TB, cfgs ...convention.RouteConfig) []*convention.Route {
	t.Helper()
	routes, err := convention.ParseAll(cfgs)
	require.NoError(t, err)
	return routes
}
