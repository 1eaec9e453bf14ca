// Package response writes the JSON envelopes every endpoint answers with:
// {"data": ...} on success, {"message": ...} for bare acknowledgements and
// {"error": ...} on failure.
package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"docemania/shared/constant"
	"docemania/shared/failure"
	"docemania/shared/logger"

	"github.com/rs/zerolog/log"
)

type Data[T any] struct {
	Data *T `json:"data,omitempty"`
}

type Error struct {
	Error *string `json:"error,omitempty"`
}

type Message struct {
	Message *string `json:"message,omitempty"`
}

func WithMessage(writer http.ResponseWriter, code int, message string) {
	write(writer, code, Message{Message: &message})
}

func WithJSON(writer http.ResponseWriter, code int, payload any) {
	write(writer, code, Data[any]{Data: &payload})
}

// WithError answers with the status and message of a failure.Failure. Any other
// error becomes a 500 with a generic message so internals never leak.
func WithError(writer http.ResponseWriter, err error) {
	message := constant.ResponseErrorInternal

	var fail *failure.Failure
	if errors.As(err, &fail) {
		message = fail.Message
	}

	write(writer, failure.GetCode(err), Error{Error: &message})
}

type errorTracer interface {
	TraceError(err error)
}

// WithTracedError records err on the request span and logs msg before answering
// like WithError.
func WithTracedError(writer http.ResponseWriter, scope errorTracer, err error, msg string) {
	scope.TraceError(err)
	log.Error().Err(err).Msg(msg)

	WithError(writer, err)
}

func WithRequestLimitExceeded(writer http.ResponseWriter) {
	WithError(writer, failure.TooManyRequests(constant.ResponseErrorRequestLimitExceeded))
}

func WithPreparingShutdown(writer http.ResponseWriter) {
	WithError(writer, failure.ServiceUnavailable(constant.ResponseErrorPrepareShutdown))
}

func WithUnhealthy(writer http.ResponseWriter) {
	WithError(writer, failure.ServiceUnavailable(constant.ResponseErrorUnhealthy))
}

func write(writer http.ResponseWriter, code int, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		logger.ErrorWithStack(err)
		writer.WriteHeader(http.StatusInternalServerError)

		return
	}

	writer.Header().Set(constant.RequestHeaderContentType, constant.ContentTypeJSON)
	writer.WriteHeader(code)

	if _, err = writer.Write(body); err != nil {
		logger.ErrorWithStack(err)
	}
}
