/*
Package domain contains the core model of a block being authored.

It defines the block definition (label template, style, connections, code template),
the ordered input list with its never-reused id counter, the editing events that mutate
them and the lifecycle hooks fired around each mutation. The package is kept pure and
free of I/O, measurement and serialization concerns; geometry and schema compilation
live in their own packages and only read from these types.

# Key Entities

  - BlockDefinition: the single in-progress definition of an editing session.
  - InputDefinition: one typed input (field kind or value kind) of the block.
  - InputList: the ordered inputs plus the monotonically increasing id counter.
  - Event: a (field, value) edit or an (action, target) input operation.
*/
package domain
