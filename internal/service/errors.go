package service

import (
	"errors"
	"fmt"
)

// Field limits, matching the column sizes.
const (
	MaxCategoryNameLength = 100
	MaxTitleLength        = 200
)

// Workflow errors. All of them are recoverable and are shown to the user as
// a notification.
var (
	ErrInvalidCredentials = errors.New("wrong username or password")
	ErrCategoryInUse      = errors.New("cannot delete category with articles")
	ErrCategoryRequired   = errors.New("please select a category")
	ErrDuplicateName      = errors.New("a category with this name already exists")
	ErrNotFound           = errors.New("not found")
	ErrEditorTimeout      = errors.New("the editor did not send its content in time, please try again")
	ErrDraftBusy          = errors.New("this article is already being saved")
	ErrDraftClosed        = errors.New("this edit was closed")
	ErrNameTooLong        = fmt.Errorf("category names are limited to %d characters", MaxCategoryNameLength)
	ErrTitleTooLong       = fmt.Errorf("titles are limited to %d characters", MaxTitleLength)
)
