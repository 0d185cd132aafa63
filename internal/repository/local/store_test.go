package local

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/andresuchdata/inbound-logbook/backend-go/internal/domain"
)

func arrival(id string, created time.Time) domain.Arrival {
	return domain.Arrival{ID: id, Brand: "Nike", ReceiptNo: "R-" + id, PONo: "PO-" + id, CreatedAt: created, UpdatedAt: created}
}

func TestTable_ListNewestFirst(t *testing.T) {
	ctx := context.Background()
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	if err := s.Arrivals().Insert(ctx, arrival("a", base), arrival("b", base.Add(time.Hour))); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := s.Arrivals().Insert(ctx, arrival("c", base.Add(time.Hour))); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	got, err := s.Arrivals().List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := []string{"c", "b", "a"}
	for i, id := range want {
		if got[i].ID != id {
			t.Fatalf("List order = %v, want %v", ids(got), want)
		}
	}
}

func TestTable_GetUpdateDelete(t *testing.T) {
	ctx := context.Background()
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	tbl := s.Arrivals()

	if _, err := tbl.Get(ctx, "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Get missing: err = %v", err)
	}

	a := arrival("a", time.Now())
	if err := tbl.Insert(ctx, a); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := tbl.Insert(ctx, a); err == nil {
		t.Fatal("duplicate insert succeeded")
	}

	a.POQty = 42
	if err := tbl.Update(ctx, a); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, err := tbl.Get(ctx, "a")
	if err != nil || got.POQty != 42 {
		t.Fatalf("Get = %+v, %v", got, err)
	}

	if err := tbl.Update(ctx, arrival("zzz", time.Now())); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Update missing: err = %v", err)
	}

	ok, err := tbl.Delete(ctx, "a")
	if err != nil || !ok {
		t.Fatalf("Delete = %v, %v", ok, err)
	}
	ok, err = tbl.Delete(ctx, "a")
	if err != nil || ok {
		t.Fatalf("second Delete = %v, %v; want false, nil", ok, err)
	}
}

func TestTable_BulkDeleteCountsActualRemovals(t *testing.T) {
	ctx := context.Background()
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	now := time.Now()
	if err := s.Arrivals().Insert(ctx, arrival("a", now), arrival("b", now), arrival("c", now)); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	n, err := s.Arrivals().BulkDelete(ctx, nil)
	if err != nil || n != 0 {
		t.Fatalf("BulkDelete(nil) = %d, %v", n, err)
	}

	n, err = s.Arrivals().BulkDelete(ctx, []string{"a", "x", "a", "c", ""})
	if err != nil {
		t.Fatalf("BulkDelete: %v", err)
	}
	if n != 2 {
		t.Fatalf("BulkDelete = %d, want 2", n)
	}

	left, _ := s.Arrivals().List(ctx)
	if len(left) != 1 || left[0].ID != "b" {
		t.Fatalf("remaining = %v", ids(left))
	}
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	tx := domain.Transaction{ID: "t1", ReceiptNo: "R1", SKU: "S", OperateType: domain.OperatePutaway, Qty: 3, CreatedAt: time.Now()}
	if err := s.Transactions().Insert(ctx, tx); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	reopened, err := Open(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	got, err := reopened.Transactions().Get(ctx, "t1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.OperateType != domain.OperatePutaway || got.Qty != 3 {
		t.Fatalf("Get = %+v", got)
	}
}

func TestStore_SharedDirKeepsWritesOfBothHandles(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	cli, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer cli.Close()
	server, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer server.Close()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	if err := cli.Arrivals().Insert(ctx, arrival("from-cli", base)); err != nil {
		t.Fatalf("cli Insert: %v", err)
	}
	if err := server.Arrivals().Insert(ctx, arrival("from-server", base.Add(time.Hour))); err != nil {
		t.Fatalf("server Insert: %v", err)
	}

	got, err := cli.Arrivals().List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 || got[0].ID != "from-server" || got[1].ID != "from-cli" {
		t.Fatalf("cli List = %v, want [from-server from-cli]", ids(got))
	}

	reopened, err := Open(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	onDisk, _ := reopened.Arrivals().List(ctx)
	if len(onDisk) != 2 {
		t.Fatalf("on disk = %v, want both records", ids(onDisk))
	}

	if ok, err := server.Arrivals().Delete(ctx, "from-cli"); err != nil || !ok {
		t.Fatalf("server Delete of cli record = %v, %v", ok, err)
	}
	if _, err := cli.Arrivals().Get(ctx, "from-cli"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("cli Get after delete: err = %v", err)
	}
}

func TestStore_CorruptFileStartsEmpty(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "vas.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	got, err := s.VasEntries().List(context.Background())
	if err != nil || len(got) != 0 {
		t.Fatalf("List = %v, %v", got, err)
	}
}

func TestStore_Replace(t *testing.T) {
	ctx := context.Background()
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	if err := s.Arrivals().Insert(ctx, arrival("old", base)); err != nil {
		t.Fatal(err)
	}

	snap := domain.Snapshot{
		Arrivals: []domain.Arrival{arrival("n2", base.Add(2*time.Hour)), arrival("n1", base.Add(time.Hour))},
	}
	if err := s.Replace(snap); err != nil {
		t.Fatalf("Replace: %v", err)
	}

	got, _ := s.Arrivals().List(ctx)
	if len(got) != 2 || got[0].ID != "n2" || got[1].ID != "n1" {
		t.Fatalf("List = %v", ids(got))
	}
}

func ids(as []domain.Arrival) []string {
	out := make([]string, len(as))
	for i, a := range as {
		out[i] = a.ID
	}
	return out
}
