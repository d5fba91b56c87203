package entity

type PaymentMethod string

const (
	PaymentMethodUPI  PaymentMethod = "upi"
	PaymentMethodCash PaymentMethod = "cash"
	PaymentMethodCard PaymentMethod = "card"
)

type TransactionStatus string

const (
	TransactionStatusInitiated TransactionStatus = "initiated"
	TransactionStatusPaid      TransactionStatus = "paid"
	TransactionStatusFailed    TransactionStatus = "failed"
)

type Transaction struct {
	Base
	ReservationID int64             `db:"reservation_id"`
	AmountPaise   int64             `db:"amount_paise"`
	PaymentMethod PaymentMethod     `db:"payment_method"`
	Status        TransactionStatus `db:"status"`
	QRPayload     *string           `db:"qr_payload"`
}
