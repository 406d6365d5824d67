package extract_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"imagemod/internal/extract"
	"imagemod/pkg/logger"
	mockocr "imagemod/pkg/ocr/mock"
)

func TestMain(m *testing.M) {
	logger.Setup(logger.DevelopmentEnvironment)
	m.Run()
}

func TestExtract_NormalizesNewlines(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	engine := mockocr.NewMockEngine(ctrl)
	engine.EXPECT().Recognize(gomock.Any(), "/img/a.png").Return("first line\nsecond line\r\nthird\r", nil)

	e := extract.New(engine)
	require.Equal(t, "first line second line third", e.Extract(context.Background(), "/img/a.png"))
}

func TestExtract_TrimsWhitespace(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	engine := mockocr.NewMockEngine(ctrl)
	engine.EXPECT().Recognize(gomock.Any(), "/img/a.png").Return("\n  hello world \n", nil)

	e := extract.New(engine)
	require.Equal(t, "hello world", e.Extract(context.Background(), "/img/a.png"))
}

func TestExtract_EngineErrorDegradesToEmpty(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	engine := mockocr.NewMockEngine(ctrl)
	engine.EXPECT().Recognize(gomock.Any(), "/img/broken.png").Return("", errors.New("corrupted file"))

	e := extract.New(engine)
	require.Empty(t, e.Extract(context.Background(), "/img/broken.png"))
}

func TestExtract_WhitespaceOnlyRecognitionIsEmpty(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	engine := mockocr.NewMockEngine(ctrl)
	engine.EXPECT().Recognize(gomock.Any(), "/img/blank.png").Return("\n\n \r\n", nil)

	e := extract.New(engine)
	require.Empty(t, e.Extract(context.Background(), "/img/blank.png"))
}
