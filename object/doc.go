// Package object provides the heap-resident value types of the Junco
// runtime: pairs, strings, numbers, environments, closures, and native
// function bindings.
//
// Every type embeds gc.Header and reports its references through
// TraceChildren, so the collector can walk arbitrary object graphs
// without knowing any layout here. Constructors admit the new object
// into the heap they are given; an object belongs to exactly one heap
// for its whole life.
package object
