package types

import (
	"github.com/go-playground/validator/v10"
)

// RankResumesRequest is the optional body of the rank-resumes endpoint.
// Keywords may be empty, in which case saved keywords are used.
type RankResumesRequest struct {
	Keywords []string `json:"keywords" validate:"omitempty,max=200,dive,max=100"`
}

// SaveKeywordsRequest stores the keyword set used for ranking a job's applicants.
type SaveKeywordsRequest struct {
	Keywords []string `json:"keywords" validate:"required,min=1,max=200,dive,required,max=100"`
}

// Validate validates the RankResumesRequest using the validator.
func (r *RankResumesRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the SaveKeywordsRequest using the validator.
func (r *SaveKeywordsRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
