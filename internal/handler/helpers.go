package handler

import (
	"errors"
	"net/http"
	"reflect"
	"strconv"

	"afiliados/internal/apierror"
	"afiliados/internal/middleware"
	"afiliados/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails;
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON invalido: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				fields[fe.Field()] = fe.Tag()
			}
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// respondError maps service errors to status codes. Unknown errors are
// logged and answered with msg500 so internals never reach the client.
func respondError(c *gin.Context, err error, msg500 string) {
	var conflicto *service.ConflictoError
	switch {
	case errors.As(err, &conflicto):
		c.JSON(http.StatusConflict, apierror.NewConflict(conflicto.Code, conflicto.Field, conflicto.Msg))
	case errors.Is(err, service.ErrNoEncontrado):
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
	case errors.Is(err, service.ErrValidacion):
		c.JSON(http.StatusUnprocessableEntity, apierror.New(err.Error()))
	case errors.Is(err, service.ErrDuplicado):
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
	default:
		log.Error().Err(err).
			Str("request_id", c.GetString(middleware.RequestIDKey)).
			Str("path", c.FullPath()).
			Msg(msg500)
		c.JSON(http.StatusInternalServerError, apierror.New(msg500))
	}
}

// numeroParam parses the :numero path parameter; it writes a 400 and
// returns false when it is not an integer.
func numeroParam(c *gin.Context) (int64, bool) {
	n, err := strconv.ParseInt(c.Param("numero"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("numero de socio invalido"))
		return 0, false
	}
	return n, true
}

func usuarioActual(c *gin.Context) string {
	if claims := middleware.GetClaims(c); claims != nil {
		return claims.Username
	}
	return ""
}
