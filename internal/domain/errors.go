package domain

import "errors"

// ErrRemoteUnavailable возвращается при любой неудаче чтения или записи
// удалённого хранилища. Вызывающий обязан трактовать её как «в этом цикле
// данных нет», а не как «хранилище пустое».
var ErrRemoteUnavailable = errors.New("remote store unavailable")

// ErrValidation возвращается при отклонении формы с отсутствующим
// обязательным полем. Показывается пользователю сразу.
var ErrValidation = errors.New("validation failed")

// ErrNotFound возвращается, когда сущность отсутствует в локальном состоянии.
var ErrNotFound = errors.New("not found")

// ErrForbidden возвращается при попытке выполнить админское действие
// без соответствующих прав.
var ErrForbidden = errors.New("forbidden")

// ErrNoSession возвращается, когда действие требует активной сессии.
var ErrNoSession = errors.New("no active session")
