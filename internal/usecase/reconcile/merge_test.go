package reconcile

import (
	"fmt"
	"reflect"
	"testing"

	"vision-app/internal/domain"
)

func doc(id string, ts int64, extra map[string]any) domain.Document {
	d := domain.Document{"id": id, "timestamp": float64(ts)}
	for k, v := range extra {
		d[k] = v
	}
	return d
}

func TestMergeWindowRemoteFieldWins(t *testing.T) {
	local := []domain.Document{doc("p1", 100, map[string]any{"caption": "локально", "extra": "остаётся"})}
	remote := []domain.Document{doc("p1", 100, map[string]any{"caption": "удалённо"})}

	out := MergeWindow(local, remote, 0)
	if len(out) != 1 {
		t.Fatalf("ожидали 1 запись, получили %d", len(out))
	}
	if out[0]["caption"] != "удалённо" {
		t.Fatalf("поле удалённой копии должно побеждать: %v", out[0]["caption"])
	}
	if out[0]["extra"] != "остаётся" {
		t.Fatalf("локальное поле без удалённого аналога должно сохраниться: %v", out[0]["extra"])
	}
}

func TestMergeWindowKeepsBothSides(t *testing.T) {
	local := []domain.Document{doc("l1", 50, nil)}
	remote := []domain.Document{doc("r1", 200, nil)}

	out := MergeWindow(local, remote, 0)
	if len(out) != 2 {
		t.Fatalf("ожидали 2 записи, получили %d", len(out))
	}
	if out[0].ID() != "r1" || out[1].ID() != "l1" {
		t.Fatalf("ожидали порядок по убыванию метки времени: %s, %s", out[0].ID(), out[1].ID())
	}
}

func TestMergeWindowIdempotent(t *testing.T) {
	set := []domain.Document{
		doc("a", 300, map[string]any{"caption": "x"}),
		doc("b", 100, nil),
	}
	once := MergeWindow(set, set, 10)
	again := MergeWindow(once, once, 10)
	if !reflect.DeepEqual(once, again) {
		t.Fatalf("повторное слияние того же набора изменило результат")
	}
}

func TestMergeWindowTruncatesToBound(t *testing.T) {
	var local, remote []domain.Document
	for i := 0; i < 40; i++ {
		local = append(local, doc(fmt.Sprintf("l%d", i), int64(1000+i), nil))
	}
	for i := 0; i < 30; i++ {
		remote = append(remote, doc(fmt.Sprintf("r%d", i), int64(2000+i), nil))
	}
	out := MergeWindow(local, remote, 50)
	if len(out) != 50 {
		t.Fatalf("ожидали усечение до 50, получили %d", len(out))
	}
	// Самые новые записи пришли с удалённой стороны, они должны пережить усечение.
	if out[0].ID()[0] != 'r' {
		t.Fatalf("новейшая запись должна быть удалённой, получили %s", out[0].ID())
	}
}

func TestMergeWindowMissingTimestampLast(t *testing.T) {
	local := []domain.Document{
		{"id": "no-ts"},
		doc("old", 1, nil),
	}
	out := MergeWindow(local, nil, 0)
	if out[len(out)-1].ID() != "no-ts" {
		t.Fatalf("запись без метки времени должна оказаться последней")
	}
}

func TestMergeWindowSkipsEmptyID(t *testing.T) {
	local := []domain.Document{{"timestamp": float64(5)}}
	remote := []domain.Document{{"caption": "без id"}}
	if out := MergeWindow(local, remote, 0); len(out) != 0 {
		t.Fatalf("записи без id должны отбрасываться, получили %d", len(out))
	}
}

func TestLocalOnly(t *testing.T) {
	local := []domain.Document{doc("a", 1, nil), doc("b", 2, nil)}
	remote := []domain.Document{doc("b", 2, nil)}
	out := LocalOnly(local, remote)
	if len(out) != 1 || out[0].ID() != "a" {
		t.Fatalf("ожидали только запись a, получили %v", out)
	}
	if got := LocalOnly(local, local); len(got) != 0 {
		t.Fatalf("при полном совпадении отправлять нечего")
	}
}
