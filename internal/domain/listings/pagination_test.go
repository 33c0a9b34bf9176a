package listings

import "testing"

func TestNewPage(t *testing.T) {
	tests := []struct {
		name               string
		total, skip, limit int
		want               Page
	}{
		{"middle page", 45, 20, 20, Page{CurrentPage: 2, TotalPages: 3, HasNextPage: true, HasPrevPage: true, Limit: 20, Skip: 20}},
		{"first page", 45, 0, 20, Page{CurrentPage: 1, TotalPages: 3, HasNextPage: true, HasPrevPage: false, Limit: 20, Skip: 0}},
		{"last page", 45, 40, 20, Page{CurrentPage: 3, TotalPages: 3, HasNextPage: false, HasPrevPage: true, Limit: 20, Skip: 40}},
		{"exact multiple", 40, 0, 20, Page{CurrentPage: 1, TotalPages: 2, HasNextPage: true, Limit: 20}},
		{"empty", 0, 0, 20, Page{CurrentPage: 1, TotalPages: 0, Limit: 20}},
		{"skip not aligned", 45, 25, 20, Page{CurrentPage: 2, TotalPages: 3, HasNextPage: true, HasPrevPage: true, Limit: 20, Skip: 25}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewPage(tt.total, tt.skip, tt.limit); got != tt.want {
				t.Fatalf("NewPage = %+v, want %+v", got, tt.want)
			}
		})
	}
}
