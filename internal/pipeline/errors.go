package pipeline

import "errors"

var (
	// ErrValidation はリクエストの必須フィールドが欠けていることを示します。
	// ネットワーク呼び出しの前に検出され、400相当として扱われます。
	ErrValidation = errors.New("validation error")

	// ErrConfiguration はゲートウェイの認証キーが未設定であることを示します。
	// ネットワーク呼び出しの前に検出され、500相当として扱われます。
	ErrConfiguration = errors.New("configuration error")
)
