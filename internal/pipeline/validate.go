package pipeline

import (
	"github.com/go-playground/validator/v10"
	"github.com/janavarta/news-platform/internal/store/model"
)

var validate = validator.New()

// submissionRules are the structural requirements a work item must meet
// before any provider money is spent on it.
type submissionRules struct {
	TenantID    string `validate:"required"`
	Title       string `validate:"required"`
	Body        string `validate:"required"`
	Language    string `validate:"required,min=2,max=8"`
	CallbackURL string `validate:"omitempty,url"`
}

func validateItem(item *model.WorkItem) error {
	return validate.Struct(submissionRules{
		TenantID:    item.TenantID,
		Title:       item.Title,
		Body:        item.Body,
		Language:    item.Language,
		CallbackURL: item.CallbackURL,
	})
}
