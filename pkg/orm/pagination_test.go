package orm_test

import (
	"testing"

	"github.com/shashiranjanraj/roastery/pkg/orm"
)

func TestNewPaginationNormalises(t *testing.T) {
	cases := []struct {
		name        string
		total       int64
		page, limit int
		wantPage    int
		wantLimit   int
		wantPages   int
		wantOffset  int
	}{
		{"defaults", 12, 0, 0, 1, orm.DefaultPageSize, 3, 0},
		{"negative page", 12, -3, 5, 1, 5, 3, 0},
		{"middle page", 12, 2, 5, 2, 5, 3, 5},
		{"exact multiple", 10, 1, 5, 1, 5, 2, 0},
		{"single short page", 3, 1, 5, 1, 5, 1, 0},
		{"empty set", 0, 1, 5, 1, 5, 0, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := orm.NewPagination(tc.total, tc.page, tc.limit)
			if p.Page != tc.wantPage {
				t.Errorf("Page = %d, want %d", p.Page, tc.wantPage)
			}
			if p.Limit != tc.wantLimit {
				t.Errorf("Limit = %d, want %d", p.Limit, tc.wantLimit)
			}
			if p.TotalPages != tc.wantPages {
				t.Errorf("TotalPages = %d, want %d", p.TotalPages, tc.wantPages)
			}
			if p.Total != tc.total {
				t.Errorf("Total = %d, want %d", p.Total, tc.total)
			}
			if got := p.Offset(); got != tc.wantOffset {
				t.Errorf("Offset() = %d, want %d", got, tc.wantOffset)
			}
		})
	}
}
