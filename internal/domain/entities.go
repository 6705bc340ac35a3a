package domain

import "encoding/json"

// The records below are owned by the exam backend. The portal types the
// fields it reads (ids, names, pagination back-fill) and passes the rest
// through untouched.

// Chapter groups topics within the physics curriculum.
type Chapter struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Grade       int    `json:"grade,omitempty"`
}

// Topic is a unit inside a chapter that questions are drawn from.
type Topic struct {
	ID          string `json:"id"`
	ChapterID   string `json:"chapterId"`
	Name        string `json:"name"`
	ChapterName string `json:"chapterName,omitempty"`
}

// Question is a single exam question as stored by the backend.
type Question struct {
	ID         string          `json:"id"`
	Content    string          `json:"content"`
	TopicID    string          `json:"topicId,omitempty"`
	TopicName  string          `json:"topicName,omitempty"`
	Difficulty string          `json:"difficulty,omitempty"`
	Answers    json.RawMessage `json:"answers,omitempty"`
}

// ExamQuestion links a question into a generated exam set.
type ExamQuestion struct {
	ID         string   `json:"id"`
	QuestionID string   `json:"questionId"`
	Order      int      `json:"order,omitempty"`
	Question   Question `json:"question,omitempty"`
}

// ExamSet is a generated exam with its questions.
type ExamSet struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	ChapterID   string         `json:"chapterId,omitempty"`
	ChapterName string         `json:"chapterName,omitempty"`
	TopicID     string         `json:"topicId,omitempty"`
	TopicName   string         `json:"topicName,omitempty"`
	CreatedAt   string         `json:"createdAt,omitempty"`
	Questions   []ExamQuestion `json:"questions,omitempty"`
}

// ManagedUser is a user record as seen on the admin screens.
type ManagedUser struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
	IsActive bool   `json:"isActive"`
}
