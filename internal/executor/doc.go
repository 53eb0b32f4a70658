/*
Package executor lowers the instructions of an interpreted document into a
tree of layout elements.

Execution walks the instruction list in order. Each invocation is expanded
through its component definition until only built-in elements remain. Every
element gets a stable data-id derived from its position (see elementid), so
executing the same document twice yields identical trees.

Arguments bound inside a component are rebased against the caller's scope
before use, so a resolved property never depends on the scope it was written
in. Mutable arguments without a mutable source become component locals,
addressed as `@<argument>@<instance data-id>` and reported in Result.Locals.
*/
package executor
