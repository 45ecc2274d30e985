package service

import (
	"context"
	"errors"
	"io"
	"time"

	"Atelier_Room/internal/model"
	"Atelier_Room/internal/pkg"
	"Atelier_Room/internal/repository/mysql"

	"gorm.io/gorm"
)

const (
	MaxAttachmentSize = 5 << 20 // 5 MiB
	PresignTTL        = 10 * time.Minute

	VariantPrivate = "private"
	VariantPublic  = "public"
)

var (
	ErrAttachmentTooLarge = errors.New("attachment too large")
	ErrAttachmentType     = errors.New("unsupported attachment type")
	ErrNoAttachment       = errors.New("post has no attachment")
	ErrRoomNotPublished   = errors.New("room is not published")
)

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// AttachmentService 附件字节只进对象存储，Post 行只记路径；
// 读取一律经签名 URL 中转，未发布房间的附件不对外可见
type AttachmentService struct {
	postRepo   *mysql.PostRepository
	roomRepo   *mysql.RoomRepository
	memberRepo *mysql.RoomMemberRepository
	store      *pkg.ObjectStore
}

func NewAttachmentService(db *gorm.DB, store *pkg.ObjectStore) *AttachmentService {
	return &AttachmentService{
		postRepo:   &mysql.PostRepository{DB: db},
		roomRepo:   &mysql.RoomRepository{DB: db},
		memberRepo: &mysql.RoomMemberRepository{DB: db},
		store:      store,
	}
}

// Upload 帖子作者上传单张图片；类型和大小在落存储前就挡掉
func (s *AttachmentService) Upload(ctx context.Context, userID, postID uint64, filename, contentType string, size int64, r io.Reader) (string, error) {
	if !allowedImageTypes[contentType] {
		return "", ErrAttachmentType
	}
	if size <= 0 || size > MaxAttachmentSize {
		return "", ErrAttachmentTooLarge
	}

	post, err := s.postRepo.FindByID(postID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrPostNotFound
	}
	if err != nil {
		return "", err
	}
	if post.AuthorID != userID {
		return "", ErrNoPermission
	}

	room, err := s.roomRepo.FindByID(post.RoomID)
	if err != nil {
		return "", err
	}
	if room.Status != model.RoomStatusOpen {
		return "", ErrRoomNotOpen
	}

	objectPath := pkg.AttachmentObjectPath(post.RoomID, userID, time.Now(), filename)
	if err := s.store.Put(ctx, objectPath, r, size, contentType); err != nil {
		return "", err
	}
	if err := s.postRepo.SetAttachment(postID, objectPath); err != nil {
		return "", err
	}
	return objectPath, nil
}

// SignedURL 发签名 URL 前复核可见性：
// 帖子未隐藏、房间未隐藏；public 口径要求房间已 forced_publish，
// private 口径要求调用者仍是房间在籍成员
func (s *AttachmentService) SignedURL(ctx context.Context, userID, postID uint64, variant string) (string, error) {
	post, err := s.postRepo.FindVisibleByID(postID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrPostNotFound
	}
	if err != nil {
		return "", err
	}
	if post.AttachmentPath == "" {
		return "", ErrNoAttachment
	}

	room, err := s.roomRepo.FindByID(post.RoomID)
	if err != nil {
		return "", err
	}
	if room.IsHidden {
		return "", ErrRoomNotFound
	}

	switch variant {
	case VariantPublic:
		if room.Status != model.RoomStatusForcedPublish {
			return "", ErrRoomNotPublished
		}
	case VariantPrivate:
		if _, err := s.memberRepo.FindActive(post.RoomID, userID); errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNotMember
		} else if err != nil {
			return "", err
		}
	default:
		return "", errors.New("invalid variant")
	}

	return s.store.PresignGet(ctx, post.AttachmentPath, PresignTTL)
}
