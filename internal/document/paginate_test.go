package document

import (
	"image"
	"testing"
)

func TestPaginate(t *testing.T) {
	tests := []struct {
		name    string
		height  int
		pageH   int
		want    []int
		wantErr bool
	}{
		{name: "不足一页", height: 30, pageH: 40, want: []int{30}},
		{name: "恰好一页", height: 40, pageH: 40, want: []int{40}},
		{name: "多页末页不足", height: 100, pageH: 40, want: []int{40, 40, 20}},
		{name: "恰好整数页", height: 120, pageH: 40, want: []int{40, 40, 40}},
		{name: "页高非法", height: 100, pageH: 0, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raster := image.NewRGBA(image.Rect(0, 0, 10, tt.height))
			pages, err := Paginate(raster, tt.pageH)
			if tt.wantErr {
				if err == nil {
					t.Fatal("期望返回错误")
				}
				return
			}
			if err != nil {
				t.Fatalf("Paginate 失败: %v", err)
			}
			if len(pages) != len(tt.want) {
				t.Fatalf("页数 = %d, want %d", len(pages), len(tt.want))
			}
			for i, p := range pages {
				if p.Bounds().Dy() != tt.want[i] {
					t.Errorf("第 %d 页高度 = %d, want %d", i+1, p.Bounds().Dy(), tt.want[i])
				}
				if p.Bounds().Dx() != 10 {
					t.Errorf("第 %d 页宽度 = %d", i+1, p.Bounds().Dx())
				}
			}
		})
	}
}

func TestPaginate_SharesPixels(t *testing.T) {
	raster := image.NewRGBA(image.Rect(0, 0, 2, 4))
	pages, err := Paginate(raster, 2)
	if err != nil {
		t.Fatal(err)
	}
	if pages[1].Bounds().Min.Y != 2 {
		t.Errorf("第二页起点 = %d, want 2", pages[1].Bounds().Min.Y)
	}
}
