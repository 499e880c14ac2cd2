package quiz

import (
	"net/http"

	"github.com/mo-amir99/lms-progress-server-go/pkg/apperrors"
)

var (
	ErrQuizNotFound     = apperrors.Validation("quiz does not exist")
	ErrDuplicateAnswer  = apperrors.Validation("a question was answered more than once")
	ErrInvalidAttempt   = apperrors.New("attempt not found for this user and quiz", http.StatusNotFound, apperrors.ErrInvalidAttempt, nil)
	ErrAlreadySubmitted = apperrors.New("attempt has already been submitted", http.StatusConflict, apperrors.ErrAlreadySubmitted, nil)
)
