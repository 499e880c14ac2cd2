package catalog

import (
	"github.com/mo-amir99/lms-progress-server-go/pkg/apperrors"
)

var (
	ErrLessonNotFound = apperrors.NotFound("lesson not found")
	ErrCourseNotFound = apperrors.NotFound("course not found")
)
