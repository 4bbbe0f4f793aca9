// Package convention implements convention-based routing templates and the
// project configuration that declares them.
//
// A template is a slash-separated path whose segments may contain parameters
// in braces:
//
//	{controller=Home}/{action=Index}/{id?}
//	api/{controller}/{id:int}
//	files/{*path}
//
// A parameter has a name and may carry constraints (":int"), a default
// ("=Home"), an optional marker ("?") or a catch-all marker ("*" or "**").
// Parameter names are case-insensitive.
//
// The configuration file is named routescope.json (routescope.yaml is also
// accepted) and is found by walking up the directory tree from the analyzed
// binary:
//
//	{
//	  "ConventionalRoutes": [
//	    {"Template": "{controller=Home}/{action=Index}/{id?}"},
//	    {"Template": "api/widgets", "Defaults": {"controller": "Widgets", "action": "List"}}
//	  ]
//	}
//
// A missing configuration file yields no convention routes. Templates are
// parsed all at once; a single malformed template fails the whole load.
package convention
