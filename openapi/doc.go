// Package openapi renders resolved routes as an OpenAPI v3.1.0 document.
//
// Every route of every action becomes one operation per verb. Route
// parameters such as {id:int}, {slug?} or {*path} become required path
// parameters whose schema is narrowed by the route constraints:
//
//	int, long, guid, bool, double, decimal, float, datetime, alpha
//	min(n), max(n), range(a,b), minlength(n), maxlength(n), length(n), length(a,b), regex(p)
//
// Operations are tagged with their controller name and identified as
// Controller_Action. Both can be enriched before building:
//
//	spec := openapi.NewSpec(openapi.Info{Title: "Shop API", Version: "1.0.0"})
//	spec.Controller("Widgets").
//	    Description("Widget catalog").
//	    Security(openapi.SecurityRequirement{"bearer": {}})
//	spec.Op("Widgets_Get").
//	    Summary("Get a widget").
//	    Response(http.StatusOK, "").
//	    Response(http.StatusNotFound, "")
//
//	doc := spec.Build(controllers)
//	err := doc.Encode(os.Stdout, openapi.FormatYAML)
//
// The document can also be served over HTTP together with an interactive UI:
//
//	mux := http.NewServeMux()
//	spec.Handle(mux, "/docs", controllers, nil)
//
// See: https://spec.openapis.org/oas/v3.1.0
package openapi
