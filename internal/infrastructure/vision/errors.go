package vision

import "errors"

// ErrVisionDisabled возвращается в сборке без тега gocv.
var ErrVisionDisabled = errors.New("gocv build tag is not enabled")

// ErrDecodeImage возвращается, если байты не удалось разобрать как изображение.
var ErrDecodeImage = errors.New("failed to decode image")
