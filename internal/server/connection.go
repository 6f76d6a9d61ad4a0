package server

import (
	"errors"
	"io"
	"net"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/memds/memds/internal/wire"
)

// readChunk is the read granularity for feeding the decoder from a
// net.Conn, matching the import loop's chunking discipline.
const readChunk = 4096

// handleConn runs the blocking read-decode-dispatch-encode loop for one
// connection until the peer disconnects or the codec surfaces a framing
// error, at which point the connection is closed. A panic inside a single
// batch's dispatch is recovered so one bad request can't take the whole
// server down; the panic is logged, the batch is answered with a top-level
// -500 response, and the connection stays open.
func (s *TCPServer) handleConn(conn net.Conn) {
	connID := uuid.NewString()
	log := s.log.With(zap.String("conn_id", connID), zap.String("remote", conn.RemoteAddr().String()))

	s.metrics.ConnectionsOpen.Inc()
	defer s.metrics.ConnectionsOpen.Dec()
	defer conn.Close()

	log.Info("connection opened")
	defer log.Info("connection closed")

	dec := wire.NewDecoder()
	enc := wire.NewEncoder()
	buf := &wire.Buffer{}
	chunk := make([]byte, readChunk)

	for {
		msg, ok := s.decodeOne(log, dec, buf, conn, chunk)
		if !ok {
			return
		}
		if msg == nil {
			continue
		}

		resp := s.safeHandle(log, msg)

		raw, err := enc.Encode(nil, resp)
		if err != nil {
			log.Error("encode response failed", zap.Error(err))
			return
		}
		if _, err := conn.Write(raw); err != nil {
			log.Warn("write failed", zap.Error(err))
			return
		}

		for _, res := range resp.Resp.Results {
			s.metrics.ObserveResult(opTypeLabel(res.Type), res.ErrCode)
		}
	}
}

// decodeOne reads from conn until either a full message decodes or the
// connection ends; it returns ok=false when the loop should stop.
func (s *TCPServer) decodeOne(log *zap.Logger, dec *wire.Decoder, buf *wire.Buffer, conn net.Conn, chunk []byte) (*wire.Message, bool) {
	for {
		msg, err := dec.Decode(buf)
		if err != nil {
			log.Warn("framing error, closing connection", zap.Error(err))
			return nil, false
		}
		if msg != nil {
			return msg, true
		}

		n, err := conn.Read(chunk)
		if n > 0 {
			buf.Write(chunk[:n])
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil, false
		}
		if err != nil {
			log.Warn("read failed", zap.Error(err))
			return nil, false
		}
	}
}

// safeHandle dispatches one batch, recovering from any panic in a
// handler so untrusted input can never crash the server.
func (s *TCPServer) safeHandle(log *zap.Logger, msg *wire.Message) (resp *wire.Message) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("recovered from panic in dispatch", zap.Any("panic", r))
			resp = &wire.Message{
				Type: wire.MsgResp,
				Resp: &wire.RespMsg{OK: false, ErrCode: -500, ErrMessage: "internal error"},
			}
		}
	}()
	return s.svc.Handle(msg)
}

func opTypeLabel(t wire.OpType) string {
	return opTypeNames[t]
}

var opTypeNames = map[wire.OpType]string{
	wire.OpUnknown:       "NOOP",
	wire.OpStrGet:        "STR_GET",
	wire.OpStrGetRange:   "STR_GETRANGE",
	wire.OpStrSet:        "STR_SET",
	wire.OpStrAppend:     "STR_APPEND",
	wire.OpStrIncr:       "STR_INCR",
	wire.OpStrDecr:       "STR_DECR",
	wire.OpStrIncrBy:     "STR_INCRBY",
	wire.OpStrDecrBy:     "STR_DECRBY",
	wire.OpStrLen:        "STR_STRLEN",
	wire.OpListPush:      "LIST_PUSH",
	wire.OpListPop:       "LIST_POP",
	wire.OpListIndex:     "LIST_INDEX",
	wire.OpListInfo:      "LIST_INFO",
	wire.OpSetAdd:        "SET_ADD",
	wire.OpSetDel:        "SET_DEL",
	wire.OpSetIsMember:   "SET_ISMEMBER",
	wire.OpSetMembers:    "SET_MEMBERS",
	wire.OpSetInfo:       "SET_INFO",
	wire.OpSetMove:       "SET_MOVE",
	wire.OpSetDiff:       "SET_DIFF",
	wire.OpSetUnion:      "SET_UNION",
	wire.OpSetIntersect:  "SET_INTERSECT",
	wire.OpKeysDel:       "KEYS_DEL",
	wire.OpKeysExists:    "KEYS_EXIST",
	wire.OpKeysRename:    "KEYS_RENAME",
	wire.OpKeysType:      "KEYS_TYPE",
	wire.OpKeyDump:       "KEY_DUMP",
	wire.OpKeyRestore:    "KEY_RESTORE",
	wire.OpSrvDBSize:     "SRV_DBSIZE",
	wire.OpSrvFlushDB:    "SRV_FLUSHDB",
	wire.OpSrvFlushAll:   "SRV_FLUSHALL",
	wire.OpSrvTime:       "SRV_TIME",
	wire.OpSrvBGSave:     "SRV_BGSAVE",
}
