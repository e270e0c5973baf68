package models

import (
	"time"

	"github.com/google/uuid"
)

// DateLayout 待办日期格式
const DateLayout = "2006-01-02"

// Todo 每日待办
type Todo struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:char(36);not null;index:idx_todo_user_date" json:"user_id"`
	Title     string    `gorm:"size:200;not null" json:"title"`
	Completed bool      `gorm:"not null;default:false" json:"completed"`
	Date      string    `gorm:"size:10;not null;index:idx_todo_user_date" json:"date"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`
}

// CreateTodoRequest 创建待办请求
type CreateTodoRequest struct {
	Title string `json:"title" binding:"required"`
	Date  string `json:"date" binding:"required,datetime=2006-01-02"`
}

// UpdateTodoRequest 更新待办请求
type UpdateTodoRequest struct {
	Title     *string `json:"title"`
	Completed *bool   `json:"completed"`
	Date      *string `json:"date" binding:"omitempty,datetime=2006-01-02"`
}
