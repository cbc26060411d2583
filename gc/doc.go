// Package gc implements the Junco runtime's tracing memory manager.
//
// The collector provides:
//   - An intrusive registry of every heap-resident runtime object
//   - Explicit root registration: slot roots, persistent containers,
//     and external root hooks (the interned-symbol table)
//   - Stack-scoped temporary roots that unwind on every exit path
//   - Cooperative mark-and-sweep collection with a size-adaptive
//     trigger threshold
//   - Weak references with post-sweep finalizers
//
// The heap and its root lists are confined to a single goroutine: the
// host either runs all allocation, registration, and collection on one
// thread of control or serializes access with its own mutex. Nothing in
// this package locks, and collection runs to completion once started.
package gc
