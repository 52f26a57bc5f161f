package session

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
)

const defaultStorePort = "6379"

type storeConnInfo struct {
	addr     string
	username string
	password string
	selectDB int
	useTLS   bool
}

// parseStoreURL 는 redis://, rediss:// URL 또는 host:port 주소를 해석한다.
func parseStoreURL(raw string) (storeConnInfo, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return storeConnInfo{}, errors.New("session store url is empty")
	}

	if !strings.Contains(trimmed, "://") {
		return parseBareAddr(trimmed)
	}

	parsed, err := url.Parse(trimmed)
	if err != nil {
		return storeConnInfo{}, fmt.Errorf("parse url: %w", err)
	}

	switch strings.ToLower(parsed.Scheme) {
	case "redis", "rediss", "valkey":
	default:
		return storeConnInfo{}, fmt.Errorf("unsupported session store scheme: %s", parsed.Scheme)
	}

	host := parsed.Hostname()
	if host == "" {
		return storeConnInfo{}, errors.New("session store host missing")
	}
	port := parsed.Port()
	if port == "" {
		port = defaultStorePort
	}

	selectDB, err := parseSelectDB(parsed.Path)
	if err != nil {
		return storeConnInfo{}, err
	}

	info := storeConnInfo{
		addr:     net.JoinHostPort(host, port),
		selectDB: selectDB,
		useTLS:   strings.EqualFold(parsed.Scheme, "rediss"),
	}
	if parsed.User != nil {
		info.username = parsed.User.Username()
		info.password, _ = parsed.User.Password()
	}
	return info, nil
}

// parseSelectDB 는 URL 경로의 DB 번호를 해석한다. 빈 경로는 0 번이다.
func parseSelectDB(path string) (int, error) {
	path = strings.TrimPrefix(strings.TrimSpace(path), "/")
	if path == "" {
		return 0, nil
	}
	db, err := strconv.Atoi(path)
	if err != nil || db < 0 {
		return 0, errors.New("invalid session store db")
	}
	return db, nil
}

// parseBareAddr 는 스킴 없는 host 또는 host:port 표기를 받는다.
// 포트가 없거나 IPv6 리터럴이면 기본 포트를 붙인다.
func parseBareAddr(addr string) (storeConnInfo, error) {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		var addrErr *net.AddrError
		if !errors.As(err, &addrErr) {
			return storeConnInfo{}, fmt.Errorf("invalid session store address: %w", err)
		}
		switch addrErr.Err {
		case "missing port in address":
			host = strings.TrimSuffix(strings.TrimPrefix(addr, "["), "]")
			port = defaultStorePort
		case "too many colons in address":
			host = addr
			port = defaultStorePort
		default:
			return storeConnInfo{}, fmt.Errorf("invalid session store address: %w", err)
		}
	}

	if strings.TrimSpace(host) == "" {
		return storeConnInfo{}, errors.New("session store host missing")
	}
	return storeConnInfo{addr: net.JoinHostPort(host, port)}, nil
}
