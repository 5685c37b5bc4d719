package storage

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamunbiswass/school-management/config"
)

// 上传子目录
const (
	DirStudents = "students"
	DirSchool   = "school"
	DirDrafts   = "drafts"
)

// 文档渲染可解码的图片类型，svg/heic/ico 等一律拒收
var decodableImageTypes = []string{
	"image/jpeg",
	"image/png",
	"image/gif",
	"image/webp",
	"image/bmp",
	"image/tiff",
}

var (
	ErrNotImage     = errors.New("上传文件不是受支持的图片格式")
	ErrFileTooLarge = errors.New("上传文件过大")
	ErrInvalidPath  = errors.New("非法的文件路径")
)

// LocalStorage 本地文件系统存储
// 数据库中保存的是对外路径（如 /uploads/students/1700000000000-1a2b3c4d.jpg），
// 由 PublicPrefix 映射到 UploadDir 下的物理文件
type LocalStorage struct {
	baseDir      string
	publicPrefix string
	maxBytes     int64
	now          func() time.Time
	logger       *zap.Logger
}

// NewLocalStorage 创建本地存储并确保根目录存在
func NewLocalStorage(cfg *config.StorageConfig, logger *zap.Logger) (*LocalStorage, error) {
	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("创建上传目录失败 %s: %w", cfg.UploadDir, err)
	}
	logger.Info("上传目录就绪", zap.String("path", cfg.UploadDir))

	return &LocalStorage{
		baseDir:      cfg.UploadDir,
		publicPrefix: "/" + strings.Trim(cfg.PublicPrefix, "/"),
		maxBytes:     cfg.MaxPhotoBytes,
		now:          time.Now,
		logger:       logger,
	}, nil
}

// SaveImage 保存上传的图片到子目录，返回对外路径
// 文件名为毫秒时间戳加随机后缀，扩展名以嗅探出的真实类型为准
func (s *LocalStorage) SaveImage(subDir string, fh *multipart.FileHeader) (string, error) {
	if fh == nil {
		return "", nil
	}
	if s.maxBytes > 0 && fh.Size > s.maxBytes {
		return "", ErrFileTooLarge
	}

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("打开上传文件失败: %w", err)
	}
	defer src.Close()

	mt, err := mimetype.DetectReader(src)
	if err != nil {
		return "", fmt.Errorf("识别文件类型失败: %w", err)
	}
	if !IsDecodableImage(mt.String()) {
		return "", ErrNotImage
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("重置文件读取位置失败: %w", err)
	}

	dir := filepath.Join(s.baseDir, subDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("创建子目录失败: %w", err)
	}

	name := s.uniqueName(mt.Extension())
	dstPath := filepath.Join(dir, name)
	dst, err := os.Create(dstPath)
	if err != nil {
		return "", fmt.Errorf("创建目标文件失败: %w", err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		_ = os.Remove(dstPath)
		return "", fmt.Errorf("写入文件失败: %w", err)
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(dstPath)
		return "", fmt.Errorf("写入文件失败: %w", err)
	}

	stored := s.publicPrefix + "/" + subDir + "/" + name
	s.logger.Debug("文件已保存", zap.String("original", fh.Filename), zap.String("stored", stored))
	return stored, nil
}

// IsDecodableImage 判断 MIME 类型是否在可解码图片白名单中
func IsDecodableImage(mime string) bool {
	return mimetype.EqualsAny(mime, decodableImageTypes...)
}

// Move 将已保存的文件移动到另一个子目录，返回新的对外路径
func (s *LocalStorage) Move(stored, subDir string) (string, error) {
	srcPath, err := s.Resolve(stored)
	if err != nil {
		return "", err
	}

	dir := filepath.Join(s.baseDir, subDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("创建子目录失败: %w", err)
	}

	name := filepath.Base(srcPath)
	if err := os.Rename(srcPath, filepath.Join(dir, name)); err != nil {
		return "", fmt.Errorf("移动文件失败: %w", err)
	}
	return s.publicPrefix + "/" + subDir + "/" + name, nil
}

// Delete 删除文件；文件不存在视为成功
func (s *LocalStorage) Delete(stored string) error {
	if strings.TrimSpace(stored) == "" {
		return nil
	}
	full, err := s.Resolve(stored)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("待删除文件不存在", zap.String("path", full))
			return nil
		}
		return fmt.Errorf("删除文件失败: %w", err)
	}
	return nil
}

// Touch 将文件修改时间刷新为当前时间
func (s *LocalStorage) Touch(stored string) error {
	full, err := s.Resolve(stored)
	if err != nil {
		return err
	}
	now := s.now()
	if err := os.Chtimes(full, now, now); err != nil {
		return fmt.Errorf("刷新文件时间失败: %w", err)
	}
	return nil
}

// PruneOlderThan 删除子目录下修改时间早于 cutoff 的文件，返回删除数量
// 子目录不存在视为无文件
func (s *LocalStorage) PruneOlderThan(subDir string, cutoff time.Time) (int, error) {
	dir := filepath.Join(s.baseDir, subDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, nil
		}
		return 0, fmt.Errorf("读取目录失败: %w", err)
	}

	removed := 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(dir, e.Name())); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				s.logger.Warn("清理过期文件失败", zap.String("file", e.Name()), zap.Error(err))
			}
			continue
		}
		removed++
	}
	return removed, nil
}

// Open 打开已存储的文件
func (s *LocalStorage) Open(stored string) (io.ReadCloser, error) {
	full, err := s.Resolve(stored)
	if err != nil {
		return nil, err
	}
	return os.Open(full)
}

// Resolve 将对外路径映射为物理路径，拒绝越出上传目录的路径
func (s *LocalStorage) Resolve(stored string) (string, error) {
	p := NormalizePath(stored)
	if p == "" || IsRemote(p) {
		return "", ErrInvalidPath
	}
	if p != s.publicPrefix && !strings.HasPrefix(p, s.publicPrefix+"/") {
		return "", ErrInvalidPath
	}

	rel := strings.TrimPrefix(p, s.publicPrefix)
	full := filepath.Join(s.baseDir, filepath.FromSlash(rel))
	r, err := filepath.Rel(s.baseDir, full)
	if err != nil || r == "." || r == ".." || strings.HasPrefix(r, ".."+string(filepath.Separator)) {
		return "", ErrInvalidPath
	}
	return full, nil
}

func (s *LocalStorage) uniqueName(ext string) string {
	return fmt.Sprintf("%d-%s%s", s.now().UnixMilli(), uuid.NewString()[:8], ext)
}

// ── 路径规范化 ──

// NormalizePath 统一存储路径格式：正斜杠、恰好一个前导斜杠
// 历史数据中可能出现 "uploads/x.png"、"//uploads/x.png" 或反斜杠路径
func NormalizePath(p string) string {
	p = strings.TrimSpace(strings.ReplaceAll(p, "\\", "/"))
	if p == "" {
		return ""
	}
	if IsRemote(p) {
		return p
	}
	return "/" + strings.TrimLeft(p, "/")
}

// IsRemote 判断是否为完整的 http(s) 地址
func IsRemote(p string) bool {
	return strings.HasPrefix(p, "http://") || strings.HasPrefix(p, "https://")
}

// PublicURL 拼接可访问的完整地址；空路径返回空串，远程地址原样返回
func PublicURL(baseURL, stored string) string {
	p := NormalizePath(stored)
	if p == "" || IsRemote(p) {
		return p
	}
	return strings.TrimRight(baseURL, "/") + p
}
