package apperror

import "errors"

// Ошибки токенов. Наружу (в HTTP ответ) детали не отдаются, чтобы по ответу
// нельзя было отличить просроченный токен от поддельного. Детали остаются
// в обернутой ошибке и попадают только в лог.
var (
	// ErrSigning - ключ подписи недоступен, выпуск токенов невозможен
	ErrSigning = errors.New("ключ подписи недоступен")

	// ErrInvalidToken - подпись не совпала, токен просрочен, отозван или
	// имеет неверную структуру
	ErrInvalidToken = errors.New("невалидный токен")

	// ErrRevocationStoreTimeout - блэклист не ответил вовремя,
	// токен отклоняется (fail closed)
	ErrRevocationStoreTimeout = errors.New("таймаут хранилища отозванных токенов")

	// ErrInvalidCredentials - неверный логин или пароль. Текст одинаковый
	// для несуществующего пользователя и неверного пароля
	ErrInvalidCredentials = errors.New("неверный логин или пароль")
)
