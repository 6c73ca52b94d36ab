package badger

// Key prefixes for different data types. Index keys embed user-supplied
// strings, so components are joined with a NUL byte that cannot appear
// in a category or client value read from JSON-safe text.
const (
	promptPrefix         = "prm"
	templatePrefix       = "tpl"
	collectionPrefix     = "col"
	promptCategoryPrefix = "prmcat"
	promptClientPrefix   = "prmcli"
	schemaVersionKey     = "schema:ver"

	keySep = "\x00"
)

// makePromptKey generates the primary key for a prompt by id.
func makePromptKey(id string) []byte {
	return []byte(promptPrefix + ":" + id)
}

// makeTemplateKey generates the primary key for a template by id.
func makeTemplateKey(id string) []byte {
	return []byte(templatePrefix + ":" + id)
}

// makeCollectionKey generates the primary key for a collection by id.
func makeCollectionKey(id string) []byte {
	return []byte(collectionPrefix + ":" + id)
}

// makeCategoryKey generates a composite key for the category index.
// Format: prefix:category<sep>id
func makeCategoryKey(category, id string) []byte {
	return []byte(promptCategoryPrefix + ":" + category + keySep + id)
}

// makePartialCategoryKey generates the iteration prefix for one category.
func makePartialCategoryKey(category string) []byte {
	return []byte(promptCategoryPrefix + ":" + category + keySep)
}

// makeClientKey generates a composite key for the client index.
// Format: prefix:client<sep>id
func makeClientKey(client, id string) []byte {
	return []byte(promptClientPrefix + ":" + client + keySep + id)
}

// makePartialClientKey generates the iteration prefix for one client.
func makePartialClientKey(client string) []byte {
	return []byte(promptClientPrefix + ":" + client + keySep)
}
