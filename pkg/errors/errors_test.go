package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"

	"pizzeria/domain/customer"
	"pizzeria/domain/order"
	"pizzeria/domain/pizza"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromDomainError(t *testing.T) {
	testCases := []struct {
		name   string
		err    error
		code   ErrorCode
		status int
	}{
		{"order not found", order.NewOrderNotFoundError("o-1"), CodeOrderNotFound, http.StatusNotFound},
		{"customer not found", customer.NewCustomerNotFoundError("c-1"), CodeCustomerNotFound, http.StatusNotFound},
		{"pizza not found", pizza.NewPizzaNotFoundError("p-1"), CodePizzaNotFound, http.StatusNotFound},
		{"item not found", order.NewItemNotFoundError("o-1", "i-1"), CodeNotFound, http.StatusNotFound},
		{"validation", order.NewEmptyOrderItemsError(), CodeValidation, http.StatusBadRequest},
		{"invalid transition", order.NewInvalidTransitionError("o-1", order.StatusDelivered, order.StatusCancelled, order.TransitionCancel), CodeInvalidOrderState, http.StatusConflict},
		{"concurrent modification", order.NewConcurrentModificationError("o-1"), CodeConcurrentModify, http.StatusConflict},
		{"duplicate email", customer.NewEmailAlreadyExistsError("a@b.com"), CodeEmailAlreadyExists, http.StatusConflict},
		{"customer has orders", customer.NewCustomerHasOrdersError("c-1", 2), CodeCustomerHasOrders, http.StatusConflict},
		{"pending only", order.NewCannotModifyOrderError("o-1", order.StatusConfirmed), CodeCannotModifyOrder, http.StatusConflict},
		{"wrapped", fmt.Errorf("load: %w", order.NewOrderNotFoundError("o-2")), CodeOrderNotFound, http.StatusNotFound},
		{"unknown", stdErrors.New("dial tcp: refused"), CodeInternal, http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			appErr := FromDomainError(tc.err)
			require.NotNil(t, appErr)
			assert.Equal(t, tc.code, appErr.Code)
			assert.Equal(t, tc.status, appErr.HTTPStatusCode())
			assert.ErrorIs(t, appErr, tc.err)
		})
	}
}

func TestFromDomainErrorHidesInternalMessage(t *testing.T) {
	appErr := FromDomainError(stdErrors.New("password=secret"))
	assert.Equal(t, "internal server error", appErr.Message)
	assert.Nil(t, FromDomainError(nil))
}

func TestFromDomainErrorKeepsAppError(t *testing.T) {
	original := TooManyRequests("slow down")
	assert.Same(t, original, FromDomainError(fmt.Errorf("wrapped: %w", original)))
	assert.True(t, Is(original, CodeTooManyRequest))
	assert.Equal(t, http.StatusTooManyRequests, original.HTTPStatusCode())
}
