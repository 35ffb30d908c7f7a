package domain

// Collection задаёт имя коллекции удалённого хранилища.
type Collection string

const (
	CollectionUsers    Collection = "users"
	CollectionPosts    Collection = "posts"
	CollectionStories  Collection = "stories"
	CollectionProducts Collection = "products"
	CollectionMessages Collection = "messages"
)

// Collections перечисляет все коллекции в фиксированном порядке.
func Collections() []Collection {
	return []Collection{
		CollectionUsers,
		CollectionPosts,
		CollectionStories,
		CollectionProducts,
		CollectionMessages,
	}
}

// Document представляет запись коллекции в развёрнутом (локальном) виде.
// Слияние работает на уровне полей, поэтому запись представлена
// декодированным JSON-объектом, а не типизированной структурой.
type Document map[string]any

// ID возвращает идентификатор записи или пустую строку.
func (d Document) ID() string {
	id, _ := d["id"].(string)
	return id
}

// Timestamp возвращает метку времени записи в миллисекундах.
// Второй результат false, если поле отсутствует или не числовое:
// такие записи считаются самыми старыми.
func (d Document) Timestamp() (int64, bool) {
	switch v := d["timestamp"].(type) {
	case float64:
		return int64(v), true
	case int64:
		return v, true
	case int:
		return int64(v), true
	default:
		return 0, false
	}
}

// Clone возвращает неглубокую копию документа.
func (d Document) Clone() Document {
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}
