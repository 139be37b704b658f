// Package scene defines the document model for Maquette.
// A scene is a tree of primitives and assemblies stored as a flat
// id-keyed arena; parent/child structure lives only in the ordered
// children lists of assembly nodes.
package scene
