package crud

import "strconv"

// IDColumn renders the record identifier, numeric in spreadsheets.
func IDColumn[T any](id func(T) *int64) Column[T] {
	return Column[T]{
		Header: "ID",
		Text: func(record T) string {
			if v := id(record); v != nil {
				return strconv.FormatInt(*v, 10)
			}
			return ""
		},
		Value: func(record T) any {
			if v := id(record); v != nil {
				return *v
			}
			return nil
		},
	}
}
