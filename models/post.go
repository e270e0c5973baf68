package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Post 日记投稿
type Post struct {
	ID        uuid.UUID      `gorm:"type:char(36);primaryKey" json:"id"`
	UserID    uuid.UUID      `gorm:"type:char(36);not null;index" json:"user_id"`
	Title     *string        `gorm:"size:200" json:"title"`
	Content   string         `gorm:"type:text;not null" json:"content"`
	Mood      *string        `gorm:"size:50" json:"mood"`
	ImageURLs datatypes.JSON `json:"image_urls"`
	CreatedAt time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// BeforeCreate 创建前生成主键并补齐图片列表
func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if len(p.ImageURLs) == 0 {
		p.ImageURLs = datatypes.JSON("[]")
	}
	return nil
}

// SetImageURLs 写入图片地址列表
func (p *Post) SetImageURLs(urls []string) {
	if urls == nil {
		urls = []string{}
	}
	raw, _ := json.Marshal(urls)
	p.ImageURLs = datatypes.JSON(raw)
}

// CreatePostRequest 创建投稿请求
type CreatePostRequest struct {
	Title     *string  `json:"title"`
	Content   string   `json:"content" binding:"required"`
	Mood      *string  `json:"mood"`
	ImageURLs []string `json:"image_urls"`
}

// UpdatePostRequest 更新投稿请求，未提供的字段保持不变
type UpdatePostRequest struct {
	Title     *string   `json:"title"`
	Content   *string   `json:"content"`
	Mood      *string   `json:"mood"`
	ImageURLs *[]string `json:"image_urls"`
}

// PostListQuery 投稿列表查询参数
type PostListQuery struct {
	Page     int    `form:"page"`
	PerPage  int    `form:"per_page"`
	Search   string `form:"search"`
	DateFrom string `form:"date_from"`
	DateTo   string `form:"date_to"`
}

// PostListResponse 投稿列表响应
type PostListResponse struct {
	Posts   []Post `json:"posts"`
	Total   int64  `json:"total"`
	Page    int    `json:"page"`
	PerPage int    `json:"per_page"`
}
