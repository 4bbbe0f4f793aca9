package routing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitalvas/routescope/metadata"
)

func TestClassify(t *testing.T) {
	t.Run("api controller", func(t *testing.T) {
		a, ok := Classify(metadata.Annotation{Type: "Microsoft.AspNetCore.Mvc.ApiControllerAttribute"})
		require.True(t, ok)
		assert.IsType(t, &APIControllerAttribute{}, a)
		assert.True(t, a.EnablesController())
		assert.False(t, a.CanGenerateRoute())
		_, hasRoute := a.Route()
		assert.False(t, hasRoute)
		assert.Equal(t, PropagationNone, a.Propagation())
	})

	t.Run("route with template", func(t *testing.T) {
		a, ok := Classify(metadata.Annotation{Type: "Route", Args: []any{"api/[controller]"}})
		require.True(t, ok)
		p, hasRoute := a.Route()
		assert.True(t, hasRoute)
		assert.Equal(t, "api/[controller]", p)
		assert.Equal(t, PropagateToActions, a.Propagation())
		_, hasVerb := a.HTTPMethodOverride()
		assert.False(t, hasVerb)
	})

	t.Run("route with named template", func(t *testing.T) {
		a, ok := Classify(metadata.Annotation{Type: "RouteAttribute", Named: map[string]any{"Template": "v1"}})
		require.True(t, ok)
		p, _ := a.Route()
		assert.Equal(t, "v1", p)
	})

	t.Run("route without template", func(t *testing.T) {
		a, ok := Classify(metadata.Annotation{Type: "Route"})
		require.True(t, ok)
		_, hasRoute := a.Route()
		assert.False(t, hasRoute)
	})

	t.Run("http verbs", func(t *testing.T) {
		for _, v := range AllVerbs.Verbs() {
			a, ok := Classify(metadata.Annotation{Type: "Http" + v.TitleCase() + "Attribute", Args: []any{"{id}"}})
			require.True(t, ok, v.String())
			verb, hasVerb := a.HTTPMethodOverride()
			assert.True(t, hasVerb)
			assert.Equal(t, v, verb)
			p, _ := a.Route()
			assert.Equal(t, "{id}", p)
			assert.Equal(t, "Http"+v.TitleCase(), a.Name())
		}
	})

	t.Run("http verb without path", func(t *testing.T) {
		a, ok := Classify(metadata.Annotation{Type: "HttpGet"})
		require.True(t, ok)
		_, hasRoute := a.Route()
		assert.False(t, hasRoute)
		assert.True(t, a.CanGenerateRoute())
	})

	t.Run("non-string argument is ignored", func(t *testing.T) {
		a, ok := Classify(metadata.Annotation{Type: "HttpPost", Args: []any{42}})
		require.True(t, ok)
		_, hasRoute := a.Route()
		assert.False(t, hasRoute)
	})

	t.Run("convention attributes", func(t *testing.T) {
		a, ok := Classify(metadata.Annotation{Type: "NonAction"})
		require.True(t, ok)
		assert.True(t, a.DisablesConventionalRoutes())

		a, ok = Classify(metadata.Annotation{Type: "ActionName", Args: []any{"List"}})
		require.True(t, ok)
		n, _ := a.ActionName()
		assert.Equal(t, "List", n)

		a, ok = Classify(metadata.Annotation{Type: "Area", Named: map[string]any{"AreaName": "Admin"}})
		require.True(t, ok)
		n, _ = a.Area()
		assert.Equal(t, "Admin", n)
	})

	t.Run("unrecognized", func(t *testing.T) {
		for _, name := range []string{"Authorize", "Http", "HttpTrace", "Httpget", "ActionName", "Produces"} {
			_, ok := Classify(metadata.Annotation{Type: name})
			assert.False(t, ok, name)
		}
	})
}

func TestClassifyAllKeepsOrder(t *testing.T) {
	attrs := ClassifyAll([]metadata.Annotation{
		{Type: "HttpPost"},
		{Type: "Authorize"},
		{Type: "Route", Args: []any{"a"}},
		{Type: "HttpGet"},
	})
	require.Len(t, attrs, 3)
	assert.Equal(t, "HttpPost", attrs[0].Name())
	assert.Equal(t, "Route", attrs[1].Name())
	assert.Equal(t, "HttpGet", attrs[2].Name())
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "ApiController", Format(NewAPIController()))
	assert.Equal(t, `Route("api")`, Format(NewRoute("api")))
	assert.Equal(t, "Route", Format(NewRoute()))
	assert.Equal(t, `HttpGet("{id}")`, Format(NewHTTP(VerbGet, "{id}")))
	assert.Equal(t, "HttpDelete", Format(NewHTTP(VerbDelete)))
	assert.Equal(t, `ActionName("List")`, Format(NewActionName("List")))
	assert.Equal(t, `Area("Admin")`, Format(NewArea("Admin")))
	assert.Equal(t, "NonAction", Format(NewNonAction()))
}

func TestAttributeLookups(t *testing.T) {
	attrs := []Attribute{NewHTTP(VerbGet), NewActionName("First"), NewActionName("Second"), NewArea("Admin")}

	n, ok := ActionNameOverride(attrs)
	assert.True(t, ok)
	assert.Equal(t, "First", n)

	area, ok := AreaOf(attrs)
	assert.True(t, ok)
	assert.Equal(t, "Admin", area)

	_, ok = AreaOf(attrs[:1])
	assert.False(t, ok)
}
