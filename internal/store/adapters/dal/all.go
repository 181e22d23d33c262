// Package dal registra todos los adaptadores de store disponibles.
// Importar con blank identifier desde el binario.
package dal

import (
	_ "github.com/dropDatabas3/restopos/internal/store/adapters/memory"
	_ "github.com/dropDatabas3/restopos/internal/store/adapters/mongo"
	_ "github.com/dropDatabas3/restopos/internal/store/adapters/pg"
)
