package ton

import (
	"errors"

	"github.com/xssnick/tonutils-go/address"
)

var ErrInvalidAddress = errors.New("некорректный адрес TON кошелька")

// NormalizeAddress проверяет адрес кошелька для записи в журнал выплат
// и приводит его к каноничной user-friendly форме. Сама выплата
// происходит внутри эскроу, перевод в сеть TON здесь не выполняется
func NormalizeAddress(raw string) (string, error) {
	if raw == "" {
		return "", ErrInvalidAddress
	}

	addr, err := address.ParseAddr(raw)
	if err != nil {
		// адрес может прийти в raw-форме "workchain:hex"
		addr, err = address.ParseRawAddr(raw)
		if err != nil {
			return "", ErrInvalidAddress
		}
	}

	return addr.String(), nil
}
