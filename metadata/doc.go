// Package metadata describes the structural metadata routescope consumes from
// a compiled web-service binary: types in declaration order, their base-type
// links, methods, and the raw annotation records attached to both.
//
// Reading the binary itself is left to an external extractor. Its output is a
// manifest document (YAML or JSON) that this package loads into a Source:
//
//	m, err := metadata.Load("shop.routes.yaml")
//	if err != nil {
//		return err
//	}
//	for _, t := range m.Types() {
//		fmt.Println(t.Ref())
//	}
//
// Enumeration order is the order of the document and is preserved by every
// accessor, since route resolution tie-breaks depend on declaration order.
package metadata
