package request

type InitiatePaymentRequest struct {
	Method      string  `json:"method" validate:"required,oneof=upi cash card"`
	PayerHandle *string `json:"payer_handle,omitempty" validate:"omitempty,upi_handle"`
}
