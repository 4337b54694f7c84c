package memory_test

import (
	"testing"

	"github.com/Edusharks/block-ide-vite-sub001/pkg/adapters/memory"
	"github.com/Edusharks/block-ide-vite-sub001/pkg/ports"
)

func TestMemoryStore_Contract(t *testing.T) {
	store := memory.NewStore()
	ports.RunDefinitionStoreContract(t, store)
}
