package document

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	// 注册 webp 解码器，jpeg/png/gif/bmp/tiff 由 imaging 注册
	_ "golang.org/x/image/webp"
)

const (
	assetLogo  = "logo"
	assetPhoto = "photo"

	maxConcurrentLoads = 8
)

func photoKey(i int) string {
	return assetPhoto + "-" + strconv.Itoa(i)
}

// assetSet 已加载的图片，缺失的图片值为 nil（由模板绘制占位图）
type assetSet map[string]image.Image

// loadAssets 并发加载模板中的全部图片
// 返回即代表所有图片已就绪，任何一张图片读取或解码失败则整体失败
func (r *Renderer) loadAssets(ctx context.Context, refs map[string]string) (assetSet, error) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentLoads)

	var mu sync.Mutex
	assets := make(assetSet, len(refs))

	for key, path := range refs {
		key, path := key, path
		g.Go(func() error {
			img, err := r.loadImage(ctx, path)
			if err != nil {
				return fmt.Errorf("加载图片 %s 失败: %w", key, err)
			}
			mu.Lock()
			assets[key] = img
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return assets, nil
}

func (r *Renderer) loadImage(ctx context.Context, path string) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, nil
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		r.logger.Warn("不加载远程图片，使用占位图", zap.String("path", path))
		return nil, nil
	}

	rc, err := r.images.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			r.logger.Warn("图片文件不存在，使用占位图", zap.String("path", path))
			return nil, nil
		}
		return nil, err
	}
	defer rc.Close()

	img, err := imaging.Decode(rc, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("解码失败: %w", err)
	}
	return img, nil
}
