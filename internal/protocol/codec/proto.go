package codec

import (
	"encoding/json"
	"fmt"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/palemoky/rps-cards/internal/protocol"
)

const (
	fieldType    = "type"
	fieldPayload = "payload"
)

// Proto 二进制帧编解码器：以 google.protobuf.Struct 作为信封
var Proto Codec = protoCodec{}

type protoCodec struct{}

func (protoCodec) Name() string { return "proto" }
func (protoCodec) Binary() bool { return true }

func (protoCodec) Encode(msg *protocol.Message) ([]byte, error) {
	fields := map[string]any{fieldType: string(msg.Type)}
	if len(msg.Payload) > 0 {
		var payload any
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return nil, fmt.Errorf("解析 payload 失败: %w", err)
		}
		fields[fieldPayload] = payload
	}

	envelope, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, fmt.Errorf("构建 protobuf 信封失败: %w", err)
	}
	return proto.Marshal(envelope)
}

func (protoCodec) Decode(data []byte) (*protocol.Message, error) {
	envelope := GetStruct()
	defer PutStruct(envelope)

	if err := proto.Unmarshal(data, envelope); err != nil {
		return nil, err
	}

	msgType := envelope.GetFields()[fieldType].GetStringValue()
	if msgType == "" {
		return nil, fmt.Errorf("消息缺少 type 字段")
	}

	msg := &protocol.Message{Type: protocol.MessageType(msgType)}
	if payload, ok := envelope.GetFields()[fieldPayload]; ok {
		raw, err := json.Marshal(payload.AsInterface())
		if err != nil {
			return nil, fmt.Errorf("还原 payload 失败: %w", err)
		}
		msg.Payload = raw
	}
	return msg, nil
}
