package escrow

import (
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/talent-escrow/internal/domain/repository"
	"github.com/ignatzorin/talent-escrow/internal/logger"
	"github.com/ignatzorin/talent-escrow/internal/pkg/apperror"
)

// translate переводит ошибки хранилища в ошибки приложения.
func translate(err error, message string) error {
	var appErr *apperror.AppError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &appErr):
		return err
	case errors.Is(err, repository.ErrRecordNotFound):
		return apperror.ErrOfferNotFound
	case errors.Is(err, repository.ErrRecordExists):
		return apperror.ErrOfferExists
	case errors.Is(err, repository.ErrInsufficientFunds):
		return apperror.ErrInsufficientFunds
	case errors.Is(err, repository.ErrProfileNotFound):
		return apperror.ErrProfileNotFound
	default:
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, message)
	}
}

func (d Dependencies) fail(op string, err error) error {
	d.Observer.OperationFailed(op, err)

	entry := logger.L().WithFields(logrus.Fields{"op": op, "code": apperror.CodeOf(err)})
	if apperror.CodeOf(err) == apperror.ErrCodeDatabaseError || apperror.CodeOf(err) == apperror.ErrCodeInternal {
		entry.WithError(err).Error("escrow operation failed")
	} else {
		entry.Debug("escrow operation rejected")
	}
	return err
}

func validationf(format string, args ...any) error {
	return apperror.Newf(apperror.ErrCodeValidation, format, args...)
}
