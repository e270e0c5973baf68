package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BinLe1988/soulmap-journal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	// ErrNotFound 记录不存在或不属于当前用户
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate 唯一键冲突
	ErrDuplicate = errors.New("record already exists")
	// ErrInvalidFilter 查询参数无法解析
	ErrInvalidFilter = errors.New("invalid filter")
)

// 分页默认值
const (
	DefaultPage    = 1
	DefaultPerPage = 10
	MaxPerPage     = 100
)

// Store 数据访问层，所有查询都按用户隔离
type Store struct {
	db *gorm.DB
}

// NewStore 创建数据访问层
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB 返回底层连接
func (s *Store) DB() *gorm.DB {
	return s.db
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// CreateUser 创建用户，邮箱已存在时返回 ErrDuplicate
func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	db := s.db.WithContext(ctx)

	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", user.Email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrDuplicate
	}
	return db.Create(user).Error
}

// GetUserByEmail 按邮箱查找用户
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

// GetUserByID 按ID查找用户
func (s *Store) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

// CreatePost 创建投稿
func (s *Store) CreatePost(ctx context.Context, post *models.Post) error {
	return s.db.WithContext(ctx).Create(post).Error
}

// GetPost 获取当前用户的投稿
func (s *Store) GetPost(ctx context.Context, id, userID uuid.UUID) (*models.Post, error) {
	var post models.Post
	err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&post).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &post, nil
}

// ListPosts 分页查询投稿，按创建时间倒序
func (s *Store) ListPosts(ctx context.Context, userID uuid.UUID, q models.PostListQuery) ([]models.Post, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Post{}).Where("user_id = ?", userID)

	if search := strings.TrimSpace(q.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("(LOWER(title) LIKE ? OR LOWER(content) LIKE ?)", pattern, pattern)
	}
	if q.DateFrom != "" {
		from, err := parseFilterTime(q.DateFrom, false)
		if err != nil {
			return nil, 0, err
		}
		query = query.Where("created_at >= ?", from)
	}
	if q.DateTo != "" {
		to, err := parseFilterTime(q.DateTo, true)
		if err != nil {
			return nil, 0, err
		}
		query = query.Where("created_at <= ?", to)
	}

	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, perPage := NormalizePage(q.Page, q.PerPage)
	posts := make([]models.Post, 0, perPage)
	err := query.Order("created_at DESC").
		Limit(perPage).
		Offset((page - 1) * perPage).
		Find(&posts).Error
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// NormalizePage 补齐分页参数
func NormalizePage(page, perPage int) (int, int) {
	if page < 1 {
		page = DefaultPage
	}
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	return page, perPage
}

// parseFilterTime 支持 RFC3339 和 YYYY-MM-DD，只有日期的截止时间包含当天
func parseFilterTime(value string, endOfDay bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation(models.DateLayout, value, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidFilter, value)
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, nil
}

// UpdatePost 更新投稿，nil 字段保持不变
func (s *Store) UpdatePost(ctx context.Context, id, userID uuid.UUID, req models.UpdatePostRequest) (*models.Post, error) {
	post, err := s.GetPost(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		post.Title = req.Title
	}
	if req.Content != nil {
		post.Content = *req.Content
	}
	if req.Mood != nil {
		post.Mood = req.Mood
	}
	if req.ImageURLs != nil {
		post.SetImageURLs(*req.ImageURLs)
	}

	if err := s.db.WithContext(ctx).Save(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

// DeletePost 删除投稿及其分析记录
func (s *Store) DeletePost(ctx context.Context, id, userID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Post{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Where("post_id = ?", id).Delete(&models.Analysis{}).Error
	})
}

// CreateAnalysis 保存分析记录
func (s *Store) CreateAnalysis(ctx context.Context, analysis *models.Analysis) error {
	return s.db.WithContext(ctx).Create(analysis).Error
}

// LatestAnalysisForPost 获取投稿最新的分析
func (s *Store) LatestAnalysisForPost(ctx context.Context, postID, userID uuid.UUID) (*models.Analysis, error) {
	var analysis models.Analysis
	err := s.db.WithContext(ctx).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Order("created_at DESC").
		First(&analysis).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &analysis, nil
}

// RecentAnalyses 获取用户最近的分析，新的在前
func (s *Store) RecentAnalyses(ctx context.Context, userID uuid.UUID, limit int) ([]models.Analysis, error) {
	analyses := make([]models.Analysis, 0, limit)
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&analyses).Error
	return analyses, err
}

// CountAnalyses 统计用户的分析总数
func (s *Store) CountAnalyses(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Analysis{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

// ListTodos 获取某一天的待办
func (s *Store) ListTodos(ctx context.Context, userID uuid.UUID, date string) ([]models.Todo, error) {
	todos := make([]models.Todo, 0)
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, date).
		Order("created_at, id").
		Find(&todos).Error
	return todos, err
}

// CreateTodo 创建待办
func (s *Store) CreateTodo(ctx context.Context, todo *models.Todo) error {
	return s.db.WithContext(ctx).Create(todo).Error
}

// UpdateTodo 更新待办，nil 字段保持不变
func (s *Store) UpdateTodo(ctx context.Context, id uint, userID uuid.UUID, req models.UpdateTodoRequest) (*models.Todo, error) {
	var todo models.Todo
	err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&todo).Error
	if err != nil {
		return nil, notFound(err)
	}

	if req.Title != nil {
		todo.Title = *req.Title
	}
	if req.Completed != nil {
		todo.Completed = *req.Completed
	}
	if req.Date != nil {
		todo.Date = *req.Date
	}

	if err := s.db.WithContext(ctx).Save(&todo).Error; err != nil {
		return nil, err
	}
	return &todo, nil
}

// DeleteTodo 删除待办
func (s *Store) DeleteTodo(ctx context.Context, id uint, userID uuid.UUID) error {
	result := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&models.Todo{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
