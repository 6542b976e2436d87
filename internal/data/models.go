package data

import (
	"database/sql"
	"time"
)

// User is an account allowed to sign in to the admin UI.
type User struct {
	ID           int64  `db:"id"`
	Username     string `db:"username"`
	PasswordHash string `db:"password_hash"`
}

// Category groups articles. Names are unique.
type Category struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`
}

// CategoryWithCount is a Category plus the number of articles referencing it,
// counted at read time.
type CategoryWithCount struct {
	Category
	ArticleCount int `db:"article_count"`
}

// Article represents a single article in the database.
type Article struct {
	ID         int64     `db:"id"`
	Title      string    `db:"title"`
	Content    string    `db:"content"`
	CategoryID *int64    `db:"category_id"`
	Published  bool      `db:"published"`
	CreatedAt  time.Time `db:"created_at"`
}

// ArticleWithCategory is an Article joined to the name of its category.
// CategoryName is invalid when the article has no category.
type ArticleWithCategory struct {
	Article
	CategoryName sql.NullString `db:"category_name"`
}

// Stats holds the dashboard counters.
type Stats struct {
	Categories int `db:"categories" json:"categories"`
	Articles   int `db:"articles" json:"articles"`
	Published  int `db:"published" json:"published"`
}
