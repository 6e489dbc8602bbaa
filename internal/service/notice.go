package service

import (
	"time"

	"github.com/kiwari-pos/stockbook/internal/enum"
	"github.com/kiwari-pos/stockbook/internal/inventory"
	"github.com/shopspring/decimal"
)

// Notice is a transient message for the operator. Display surfaces hide it
// after DismissAfter.
type Notice struct {
	Severity     string        `json:"severity"`
	Message      string        `json:"message"`
	CreatedAt    time.Time     `json:"createdAt"`
	DismissAfter time.Duration `json:"dismissAfter"`
}

// Notifier receives notices as operations complete or fail.
type Notifier interface {
	Notify(n Notice)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notice)

func (f NotifierFunc) Notify(n Notice) { f(n) }

// Observer is told about state changes worth measuring.
type Observer interface {
	OrderFinalized(order inventory.Order)
	CatalogChanged(products int, valuation decimal.Decimal)
	Rejected(kind string)
}

type nopNotifier struct{}

func (nopNotifier) Notify(Notice) {}

type nopObserver struct{}

func (nopObserver) OrderFinalized(inventory.Order) {}

func (nopObserver) CatalogChanged(int, decimal.Decimal) {}

func (nopObserver) Rejected(string) {}

func (s *Session) notify(severity, message string) {
	s.notifier.Notify(Notice{
		Severity:     severity,
		Message:      message,
		CreatedAt:    s.now(),
		DismissAfter: s.noticeTTL,
	})
}

func (s *Session) succeed(message string) {
	s.notify(enum.SeveritySuccess, message)
}

// reject reports err to the operator and the observer and returns it.
func (s *Session) reject(err error) error {
	s.observer.Rejected(ErrorKind(err))
	s.notify(enum.SeverityError, err.Error())
	return err
}
