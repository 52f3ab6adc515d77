// Package tagd defines the tag graph model: tags, predicates, referents,
// part-of-speech flags, hard tags and the error sink shared by the engine.
//
// A tag is a node in a single-rooted type hierarchy. Its SuperObject is the
// parent id and its SubRelator names the edge to the parent. Tags carry a set
// of predicates (relator, object, modifier) ordered by (relator, object).
//
// Variants share the Tag struct and are told apart by their POS:
//
//	t := tagd.NewTag("dog", tagd.HardIsA, "animal")
//	t.Relate(tagd.HardHas, "legs", "4")
//
//	r := tagd.NewReferent("perro", "dog", "spanish")
//	q := tagd.NewInterrogator(tagd.HardInterrogator, "animal")
package tagd
