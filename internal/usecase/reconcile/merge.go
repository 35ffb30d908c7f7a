package reconcile

import (
	"sort"

	"vision-app/internal/domain"
)

// MergeWindow сливает локальную и удалённую последовательности одной
// коллекции. Карта засевается локальными записями, затем поверх по id
// накладываются поля удалённых: поле, которого у удалённой копии нет,
// сохраняет локальное значение. Побеждает присутствие поля, а не
// целая запись. Результат сортируется по метке времени, новые первыми,
// и усекается до bound (ноль отключает усечение).
//
// Слияние идемпотентно: MergeWindow(S, S, b) == MergeWindow(S, nil, b).
// Версионных полей нет: при конкурентных редакторах сходимся к
// последнему известному значению удалённой стороны, это осознанное
// ограничение, а не CRDT.
func MergeWindow(local, remote []domain.Document, bound int) []domain.Document {
	merged := make(map[string]domain.Document, len(local)+len(remote))
	order := make([]string, 0, len(local)+len(remote))

	for _, doc := range local {
		id := doc.ID()
		if id == "" {
			continue
		}
		if _, ok := merged[id]; !ok {
			order = append(order, id)
		}
		merged[id] = doc.Clone()
	}
	for _, doc := range remote {
		id := doc.ID()
		if id == "" {
			continue
		}
		cur, ok := merged[id]
		if !ok {
			merged[id] = doc.Clone()
			order = append(order, id)
			continue
		}
		for k, v := range doc {
			cur[k] = v
		}
	}

	out := make([]domain.Document, 0, len(order))
	for _, id := range order {
		out = append(out, merged[id])
	}
	// Записи без числовой метки времени считаются самыми старыми.
	sort.SliceStable(out, func(i, j int) bool {
		ti, iok := out[i].Timestamp()
		tj, jok := out[j].Timestamp()
		if iok != jok {
			return iok
		}
		return ti > tj
	})
	if bound > 0 && len(out) > bound {
		out = out[:bound]
	}
	return out
}

// LocalOnly возвращает локальные записи, которых нет в удалённом окне:
// кандидаты на отправку наверх.
func LocalOnly(local, remote []domain.Document) []domain.Document {
	seen := make(map[string]struct{}, len(remote))
	for _, doc := range remote {
		if id := doc.ID(); id != "" {
			seen[id] = struct{}{}
		}
	}
	var out []domain.Document
	for _, doc := range local {
		id := doc.ID()
		if id == "" {
			continue
		}
		if _, ok := seen[id]; !ok {
			out = append(out, doc)
		}
	}
	return out
}
