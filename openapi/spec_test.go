package openapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/vitalvas/routescope/routing"
)

func testControllers() []routing.Controller {
	return []routing.Controller{
		{
			ControllerName: "Widgets",
			ClassName:      "WidgetsController",
			Namespace:      "Shop.Api.Controllers",
			Actions: []routing.Action{
				{
					MethodName: "List",
					Routes:     []routing.Route{{Path: "/api/widgets", Methods: routing.NewVerbSet(routing.VerbGet)}},
				},
				{
					MethodName: "Get",
					Routes:     []routing.Route{{Path: "/api/widgets/{id:int}", Methods: routing.NewVerbSet(routing.VerbGet)}},
				},
				{
					MethodName: "Save",
					Routes: []routing.Route{{
						Path:    "/api/widgets/{id:guid}",
						Methods: routing.NewVerbSet(routing.VerbPut, routing.VerbPatch),
					}},
				},
				{
					MethodName: "Unrouted",
					Routes:     []routing.Route{},
				},
			},
		},
		{
			ControllerName: "Home",
			ClassName:      "HomeController",
			Actions: []routing.Action{
				{
					MethodName:     "Index",
					IsConventional: true,
					Routes:         []routing.Route{{Path: "/Home/Index/{id?}", Methods: routing.AllVerbs}},
				},
				{
					MethodName: "Duplicate",
					Routes:     []routing.Route{{Path: "/api/widgets", Methods: routing.NewVerbSet(routing.VerbGet)}},
				},
			},
		},
	}
}

func TestBuild(t *testing.T) {
	spec := NewSpec(Info{Title: "Shop API", Version: "1.0.0"})
	doc := spec.Build(testControllers())

	assert.Equal(t, "3.1.0", doc.OpenAPI)
	assert.Equal(t, "Shop API", doc.Info.Title)
	assert.Len(t, doc.Paths, 3)

	t.Run("operation per verb", func(t *testing.T) {
		item := doc.Paths["/api/widgets/{id}"]
		require.NotNil(t, item)
		require.NotNil(t, item.Put)
		require.NotNil(t, item.Patch)
		assert.Nil(t, item.Post)
		assert.Equal(t, "Widgets_Save", item.Put.OperationID)
		assert.Equal(t, "Widgets_Save_2", item.Patch.OperationID)
	})

	t.Run("path parameters", func(t *testing.T) {
		require.Contains(t, doc.Paths, "/api/widgets/{id}")
		require.NotContains(t, doc.Paths, "/api/widgets/{id:int}")

		get := doc.Paths["/api/widgets/{id}"].Get
		require.NotNil(t, get)
		require.Len(t, get.Parameters, 1)
		p := get.Parameters[0]
		assert.Equal(t, "id", p.Name)
		assert.Equal(t, "path", p.In)
		assert.True(t, p.Required)
		assert.Equal(t, []string{"integer"}, p.Schema.Type.Values())
		assert.Equal(t, "int32", p.Schema.Format)
	})

	t.Run("first claim of path and verb wins", func(t *testing.T) {
		list := doc.Paths["/api/widgets"].Get
		require.NotNil(t, list)
		assert.Equal(t, "Widgets_List", list.OperationID)
	})

	t.Run("every verb of a conventional route", func(t *testing.T) {
		item := doc.Paths["/Home/Index/{id}"]
		require.NotNil(t, item)
		assert.Len(t, item.operations(), 7)
		assert.Equal(t, "Optional segment.", item.Get.Parameters[0].Description)
		assert.Equal(t, []string{"Home"}, item.Get.Tags)
		assert.Equal(t, "HomeController.Index", item.Get.Summary)
	})

	t.Run("default response", func(t *testing.T) {
		op := doc.Paths["/api/widgets"].Get
		require.Contains(t, op.Responses, "200")
		assert.Equal(t, "OK", op.Responses["200"].Description)
	})

	t.Run("tags collected", func(t *testing.T) {
		assert.Equal(t, []Tag{{Name: "Home"}, {Name: "Widgets"}}, doc.Tags)
	})
}

func TestBuildMetadata(t *testing.T) {
	spec := NewSpec(Info{Title: "Shop API", Version: "1.0.0"}).
		AddServer(Server{URL: "https://shop.example.com"}).
		SetExternalDocs("https://docs.example.com", "Docs").
		SetSecurity(SecurityRequirement{"bearer": {}}).
		AddSecurityScheme("bearer", &SecurityScheme{Type: "http", Scheme: "bearer"}).
		AddTag(Tag{Name: "Widgets", Description: "User-defined"}).
		AddTag(Tag{Name: "Unused"})

	spec.Controller("Widgets").
		Description("Ignored, user tag wins").
		Tags("catalog").
		Deprecated()
	spec.Controller("Home").
		Description("Landing pages").
		Security()

	spec.Op("Widgets_Get").
		Summary("Get a widget").
		Description("Returns one widget.").
		Tags("read").
		Response(http.StatusOK, "").
		Response(http.StatusNotFound, "No such widget").
		Parameter(&Parameter{Name: "id", In: "path", Required: true, Description: "Widget id"})
	spec.Op("Widgets_List").
		OperationID("listWidgets").
		Security(SecurityRequirement{"apiKey": {}}).
		ExternalDocs("https://docs.example.com/list", "")
	spec.Op("Home_Index").DefaultResponse("")

	doc := spec.Build(testControllers())

	assert.Equal(t, []Server{{URL: "https://shop.example.com"}}, doc.Servers)
	assert.Equal(t, "https://docs.example.com", doc.ExternalDocs.URL)
	require.NotNil(t, doc.Components)
	assert.Contains(t, doc.Components.SecuritySchemes, "bearer")

	get := doc.Paths["/api/widgets/{id}"].Get
	assert.Equal(t, "Get a widget", get.Summary)
	assert.Equal(t, "Returns one widget.", get.Description)
	assert.Equal(t, []string{"Widgets", "read", "catalog"}, get.Tags)
	assert.True(t, get.Deprecated)
	assert.Equal(t, "OK", get.Responses["200"].Description)
	assert.Equal(t, "No such widget", get.Responses["404"].Description)
	require.Len(t, get.Parameters, 1)
	assert.Equal(t, "Widget id", get.Parameters[0].Description)

	list := doc.Paths["/api/widgets"].Get
	assert.Equal(t, "listWidgets", list.OperationID)
	assert.Equal(t, []SecurityRequirement{{"apiKey": {}}}, list.Security)
	assert.Equal(t, "https://docs.example.com/list", list.ExternalDocs.URL)

	index := doc.Paths["/Home/Index/{id}"].Get
	assert.Equal(t, []SecurityRequirement{}, index.Security)
	assert.Equal(t, "Default response", index.Responses["default"].Description)
	assert.False(t, index.Deprecated)

	assert.Equal(t, []Tag{
		{Name: "Home", Description: "Landing pages"},
		{Name: "Unused"},
		{Name: "Widgets", Description: "User-defined"},
		{Name: "catalog"},
		{Name: "read"},
	}, doc.Tags)
}

func TestParsePath(t *testing.T) {
	float := func(f float64) *float64 { return &f }
	integer := func(n int) *int { return &n }

	tests := []struct {
		name     string
		path     string
		expected string
		schema   *Schema
		desc     string
	}{
		{name: "plain", path: "/a/{id}", expected: "/a/{id}", schema: &Schema{Type: TypeString("string")}},
		{name: "long", path: "/a/{id:long}", expected: "/a/{id}", schema: &Schema{Type: TypeString("integer"), Format: "int64"}},
		{name: "guid", path: "/a/{id:guid}", expected: "/a/{id}", schema: &Schema{Type: TypeString("string"), Format: "uuid"}},
		{name: "bool", path: "/a/{flag:bool}", expected: "/a/{flag}", schema: &Schema{Type: TypeString("boolean")}},
		{name: "double", path: "/a/{v:double}", expected: "/a/{v}", schema: &Schema{Type: TypeString("number"), Format: "double"}},
		{name: "decimal", path: "/a/{v:decimal}", expected: "/a/{v}", schema: &Schema{Type: TypeString("number")}},
		{name: "float", path: "/a/{v:float}", expected: "/a/{v}", schema: &Schema{Type: TypeString("number"), Format: "float"}},
		{name: "datetime", path: "/a/{at:datetime}", expected: "/a/{at}", schema: &Schema{Type: TypeString("string"), Format: "date-time"}},
		{name: "alpha", path: "/a/{s:alpha}", expected: "/a/{s}", schema: &Schema{Type: TypeString("string"), Pattern: "^[A-Za-z]+$"}},
		{name: "range", path: "/a/{id:int:range(1,10)}", expected: "/a/{id}", schema: &Schema{Type: TypeString("integer"), Format: "int32", Minimum: float(1), Maximum: float(10)}},
		{name: "min max", path: "/a/{id:min(1):max(5)}", expected: "/a/{id}", schema: &Schema{Type: TypeString("string"), Minimum: float(1), Maximum: float(5)}},
		{name: "length", path: "/a/{s:length(2,8)}", expected: "/a/{s}", schema: &Schema{Type: TypeString("string"), MinLength: integer(2), MaxLength: integer(8)}},
		{name: "fixed length", path: "/a/{s:length(4)}", expected: "/a/{s}", schema: &Schema{Type: TypeString("string"), MinLength: integer(4), MaxLength: integer(4)}},
		{name: "min length", path: "/a/{s:minlength(3)}", expected: "/a/{s}", schema: &Schema{Type: TypeString("string"), MinLength: integer(3)}},
		{name: "regex", path: "/a/{code:regex(^[a-z]+$)}", expected: "/a/{code}", schema: &Schema{Type: TypeString("string"), Pattern: "^[a-z]+$"}},
		{name: "unknown constraint", path: "/a/{id:custom}", expected: "/a/{id}", schema: &Schema{Type: TypeString("string")}},
		{name: "typed default", path: "/a/{page:int=1}", expected: "/a/{page}", schema: &Schema{Type: TypeString("integer"), Format: "int32", Default: int64(1)}},
		{name: "string default", path: "/a/{sort=name}", expected: "/a/{sort}", schema: &Schema{Type: TypeString("string"), Default: "name"}},
		{name: "optional", path: "/a/{id?}", expected: "/a/{id}", schema: &Schema{Type: TypeString("string")}, desc: "Optional segment."},
		{name: "catch-all", path: "/files/{*path}", expected: "/files/{path}", schema: &Schema{Type: TypeString("string")}, desc: "Catch-all segment."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, params := parsePath(tt.path)
			assert.Equal(t, tt.expected, got)
			require.Len(t, params, 1)
			assert.Equal(t, tt.schema, params[0].Schema)
			assert.Equal(t, tt.desc, params[0].Description)
			assert.True(t, params[0].Required)
		})
	}

	t.Run("no parameters", func(t *testing.T) {
		got, params := parsePath("/api/[controller]")
		assert.Equal(t, "/api/[controller]", got)
		assert.Nil(t, params)
	})

	t.Run("invalid template kept verbatim", func(t *testing.T) {
		got, params := parsePath("/api/{id")
		assert.Equal(t, "/api/{id", got)
		assert.Nil(t, params)
	})

	t.Run("several parameters", func(t *testing.T) {
		got, params := parsePath("/orders/{orderId:int}/lines/{lineId:int}")
		assert.Equal(t, "/orders/{orderId}/lines/{lineId}", got)
		require.Len(t, params, 2)
		assert.Equal(t, "orderId", params[0].Name)
		assert.Equal(t, "lineId", params[1].Name)
	})
}

func TestEncode(t *testing.T) {
	doc := NewSpec(Info{Title: "Shop API", Version: "1.0.0"}).Build(testControllers())

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, doc.Encode(&buf, FormatJSON))

		var decoded map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
		assert.Equal(t, "3.1.0", decoded["openapi"])
		assert.Contains(t, buf.String(), `"operationId": "Widgets_Get"`)
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, doc.Encode(&buf, FormatYAML))

		var decoded map[string]any
		require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
		assert.Equal(t, "3.1.0", decoded["openapi"])
		assert.Contains(t, buf.String(), "operationId: Widgets_Get")
	})

	t.Run("unsupported", func(t *testing.T) {
		err := doc.Encode(&bytes.Buffer{}, Format("xml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported format")
	})
}

func BenchmarkBuild(b *testing.B) {
	controllers := testControllers()
	spec := NewSpec(Info{Title: "Shop API", Version: "1.0.0"})

	for b.Loop() {
		spec.Build(controllers)
	}
}
