package pagination

import "testing"

func TestNormalizeBounds(t *testing.T) {
	p := Normalize(Params{Page: 0, PageSize: 0})
	if p.Page != 1 || p.PageSize != DefaultPageSize {
		t.Fatalf("unexpected normalized params: %+v", p)
	}

	p = Normalize(Params{Page: 3, PageSize: 1000})
	if p.PageSize != MaxPageSize {
		t.Fatalf("expected page size clamped to %d, got %d", MaxPageSize, p.PageSize)
	}
}

func TestOffset(t *testing.T) {
	if got := Offset(Params{Page: 1, PageSize: 12}); got != 0 {
		t.Fatalf("expected offset 0, got %d", got)
	}
	if got := Offset(Params{Page: 3, PageSize: 12}); got != 24 {
		t.Fatalf("expected offset 24, got %d", got)
	}
}

func TestBuildMeta(t *testing.T) {
	meta := BuildMeta(Params{Page: 2, PageSize: 12}, 30)
	if meta.TotalPages != 3 {
		t.Fatalf("expected 3 pages, got %d", meta.TotalPages)
	}
	if !meta.HasNext || !meta.HasPrev {
		t.Fatalf("expected middle page to have next and prev: %+v", meta)
	}
}

func TestBuildMetaClampsOutOfRangePage(t *testing.T) {
	meta := BuildMeta(Params{Page: 99, PageSize: 12}, 30)
	if meta.Page != 3 {
		t.Fatalf("expected page clamped to 3, got %d", meta.Page)
	}
	if meta.HasNext {
		t.Fatal("last page must not report a next page")
	}
}

func TestBuildMetaEmptyResult(t *testing.T) {
	meta := BuildMeta(Params{Page: 1, PageSize: 12}, 0)
	if meta.TotalPages != 1 || meta.Page != 1 {
		t.Fatalf("empty result should resolve to a single empty page: %+v", meta)
	}
}
