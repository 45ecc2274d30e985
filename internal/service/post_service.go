package service

import (
	"errors"
	"time"

	"Atelier_Room/internal/model"
	"Atelier_Room/internal/repository/mysql"

	"gorm.io/gorm"
)

const MaxPostContentLen = 2000

type PostService struct {
	repo       *mysql.PostRepository
	roomRepo   *mysql.RoomRepository
	memberRepo *mysql.RoomMemberRepository
	userRepo   *mysql.UserRepository
}

func NewPostService(db *gorm.DB) *PostService {
	return &PostService{
		repo:       &mysql.PostRepository{DB: db},
		roomRepo:   &mysql.RoomRepository{DB: db},
		memberRepo: &mysql.RoomMemberRepository{DB: db},
		userRepo:   &mysql.UserRepository{DB: db},
	}
}

// CreatePost 只有 open 房间的在籍成员可发帖；display_name 存发帖时的用户名快照，
// 之后的改名只经批量改写同步，不做联表
func (s *PostService) CreatePost(userID, roomID uint64, content string) (*model.Post, error) {
	if content == "" {
		return nil, errors.New("content required")
	}
	if len(content) > MaxPostContentLen {
		return nil, errors.New("content too long")
	}

	room, err := s.roomRepo.FindByID(roomID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRoomNotFound
	}
	if err != nil {
		return nil, err
	}
	if room.Status != model.RoomStatusOpen {
		return nil, ErrRoomNotOpen
	}

	if _, err := s.memberRepo.FindActive(roomID, userID); errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotMember
	} else if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}

	post := &model.Post{
		RoomID:      roomID,
		AuthorID:    userID,
		DisplayName: user.Username,
		Content:     content,
	}
	if err := s.repo.Create(post); err != nil {
		return nil, err
	}
	return post, nil
}

// DeletePost 仅作者可删，物理删除
func (s *PostService) DeletePost(userID, postID uint64) error {
	affected, err := s.repo.HardDeleteByAuthor(postID, userID)
	if err != nil {
		return err
	}
	if affected == 0 {
		if _, err := s.repo.FindByID(postID); errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPostNotFound
		}
		return ErrNoPermission
	}
	return nil
}

// HidePost 房主的运营隐藏，和删除是两回事
func (s *PostService) HidePost(operatorID, postID uint64) error {
	return s.setStatus(operatorID, postID, model.PostStatusHidden)
}

func (s *PostService) UnhidePost(operatorID, postID uint64) error {
	return s.setStatus(operatorID, postID, model.PostStatusNormal)
}

func (s *PostService) setStatus(operatorID, postID uint64, status int) error {
	post, err := s.repo.FindByID(postID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrPostNotFound
	}
	if err != nil {
		return err
	}

	room, err := s.roomRepo.FindByID(post.RoomID)
	if err != nil {
		return err
	}
	if room.OwnerID != operatorID {
		return ErrNotOwner
	}
	return s.repo.SetStatus(postID, status)
}

// ListBoard 看板分页，隐藏帖过滤
func (s *PostService) ListBoard(roomID uint64, page, size int) ([]model.Post, error) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 50 {
		size = 20
	}
	offset := (page - 1) * size
	return s.repo.ListByRoom(roomID, offset, size)
}

// ListBoardCursor 游标分页：首页传零值，返回下一页游标
func (s *PostService) ListBoardCursor(roomID uint64, lastID uint64, lastCreatedAt time.Time, size int) ([]model.Post, uint64, time.Time, error) {
	if size <= 0 || size > 50 {
		size = 20
	}
	list, err := s.repo.ListByRoomCursor(roomID, lastID, lastCreatedAt, size)
	if err != nil {
		return nil, 0, time.Time{}, err
	}
	var nextID uint64
	var nextTS time.Time
	if len(list) > 0 {
		last := list[len(list)-1]
		nextID = last.ID
		nextTS = last.CreatedAt
	}
	return list, nextID, nextTS, nil
}
