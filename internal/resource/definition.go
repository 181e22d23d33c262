// Package resource describe los recursos REST respaldados directamente por
// el store de documentos y las operaciones de lectura/alta sobre ellos.
package resource

// Relation indica que Field guarda el id (o lista de ids) de un documento de
// Collection y que se reemplaza por ese documento al leer.
type Relation struct {
	Field      string
	Collection string
}

// Definition describe un recurso: su nombre en la ruta, su colección y sus
// relaciones a expandir.
type Definition struct {
	Name       string
	Collection string
	Relations  []Relation
}

// Nombres de colección compartidos por varias definiciones.
const (
	CollBranches  = "branches"
	CollMenuItems = "menuitems"
	CollTables    = "tables"
	CollTenants   = "tenants"
)

// FieldTenant es el campo con el slug del restaurante dueño del documento.
const FieldTenant = "tenant"

// Catalog retorna los recursos del POS expuestos bajo /api/{Name}.
func Catalog() []Definition {
	branch := Relation{Field: "branch", Collection: CollBranches}
	return []Definition{
		{Name: "branches", Collection: CollBranches},
		{Name: "menu-items", Collection: CollMenuItems},
		{Name: "inventory", Collection: "inventoryitems", Relations: []Relation{branch}},
		{Name: "reservations", Collection: "reservations", Relations: []Relation{
			branch,
			{Field: "table", Collection: CollTables},
		}},
		{Name: "reviews", Collection: "reviews", Relations: []Relation{branch}},
		{Name: "tables", Collection: CollTables, Relations: []Relation{branch}},
		{Name: "branch-menu-items", Collection: "branchmenuitems", Relations: []Relation{
			branch,
			{Field: "menuItem", Collection: CollMenuItems},
		}},
	}
}

// Lookup busca una definición del catálogo por nombre.
func Lookup(name string) (Definition, bool) {
	for _, d := range Catalog() {
		if d.Name == name {
			return d, true
		}
	}
	return Definition{}, false
}
