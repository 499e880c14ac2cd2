package certificate

import (
	"github.com/mo-amir99/lms-progress-server-go/pkg/apperrors"
)

var ErrCertificateNotFound = apperrors.NotFound("certificate not found")
