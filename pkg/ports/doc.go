/*
Package ports defines the driven ports (interfaces) of the block factory.

These interfaces decouple session hosting from storage and coordination backends.

# Key Interfaces

  - DefinitionStore: persists the in-progress definition of each session (memory, file, Redis).
  - BlockLibrary: read-only catalogue of ready-made blocks (Loam).
  - DistributedLocker: serializes access to one session across server replicas (Redis).
*/
package ports
