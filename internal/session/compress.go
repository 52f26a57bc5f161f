package session

import (
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// 히스토리 블롭은 zstd 로 압축해 저장한다.
// EncodeAll/DecodeAll 은 동시 호출에 안전하므로 인스턴스 하나를 재사용한다.
var newHistoryCodec = sync.OnceValues(func() (*historyCodec, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}
	return &historyCodec{encoder: encoder, decoder: decoder}, nil
})

type historyCodec struct {
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

func compressHistory(src []byte) ([]byte, error) {
	codec, err := newHistoryCodec()
	if err != nil {
		return nil, err
	}
	return codec.encoder.EncodeAll(src, make([]byte, 0, len(src)/2)), nil
}

func decompressHistory(src []byte) ([]byte, error) {
	codec, err := newHistoryCodec()
	if err != nil {
		return nil, err
	}
	decoded, err := codec.decoder.DecodeAll(src, nil)
	if err != nil {
		return nil, fmt.Errorf("decompress history: %w", err)
	}
	return decoded, nil
}
