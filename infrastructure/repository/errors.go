package repository

import (
	"github.com/lib/pq"
	"github.com/pkg/errors"
)

// wrapExecError anexa o código SQLSTATE quando o erro vem do Postgres
func wrapExecError(err error, msg string) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return errors.Wrapf(pqErr, "%s: erro no banco de dados (código: %s)", msg, pqErr.Code)
	}
	return errors.Wrap(err, msg)
}
