package server

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"

	"taska/internal/domain/errors"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const sessionCookie = "jwt_token"

// SessionAuth пропускает запрос только с действующей сессией,
// иначе 401 и редирект на /login.
func (api *TaskAPI) SessionAuth() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		tokenString, err := ctx.Cookie(sessionCookie)
		if err != nil || tokenString == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errors.ErrUnauthorized.Error(), "redirect": "/login"})
			return
		}

		claims, err := api.parseToken(tokenString)
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errors.ErrUnauthorized.Error(), "redirect": "/login"})
			return
		}

		userID, ok := claims["user_id"].(string)
		if !ok || userID == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errors.ErrUnauthorized.Error(), "redirect": "/login"})
			return
		}

		if _, err := api.users.GetUserByID(userID); err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errors.ErrUnauthorized.Error(), "redirect": "/login"})
			return
		}

		ctx.Set("user_id", userID)
		ctx.Next()
	}
}

func (api *TaskAPI) parseToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("неожиданный метод подписи: %v", token.Header["alg"])
		}
		return []byte(api.cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.ErrUnauthorized
	}
	return claims, nil
}

type gzipBodyCloser struct {
	io.Reader
	gzipReader io.Closer
	bodyCloser io.Closer
}

func (gc *gzipBodyCloser) Close() error {
	var err1, err2 error
	if gc.gzipReader != nil {
		err1 = gc.gzipReader.Close()
	}
	if gc.bodyCloser != nil {
		err2 = gc.bodyCloser.Close()
	}
	if err1 != nil {
		return err1
	}
	return err2
}

func GzipRequestDecompress() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		encoding := strings.ToLower(ctx.GetHeader("Content-Encoding"))
		if strings.Contains(encoding, "gzip") {
			gr, err := gzip.NewReader(ctx.Request.Body)
			if err != nil {
				ctx.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": errors.ErrInvalidGzipRequest.Error()})
				return
			}

			ctx.Request.Body = &gzipBodyCloser{
				Reader:     gr,
				gzipReader: gr,
				bodyCloser: ctx.Request.Body,
			}

			ctx.Request.Header.Del("Content-Encoding")
			ctx.Request.Header.Del("Content-Length")
		}
		ctx.Next()
	}
}

const minCompressSize = 1024

type bufferedResponseWriter struct {
	gin.ResponseWriter
	buf        bytes.Buffer
	statusCode int
}

func (w *bufferedResponseWriter) Write(data []byte) (int, error) {
	return w.buf.Write(data)
}

func (w *bufferedResponseWriter) WriteString(s string) (int, error) {
	return w.buf.WriteString(s)
}

func (w *bufferedResponseWriter) WriteHeader(statusCode int) {
	w.statusCode = statusCode
}

func (w *bufferedResponseWriter) WriteHeaderNow() {}

func (w *bufferedResponseWriter) Flush() {}

func (w *bufferedResponseWriter) Size() int { return w.buf.Len() }

func (w *bufferedResponseWriter) Status() int {
	if w.statusCode == 0 {
		return http.StatusOK
	}
	return w.statusCode
}

func (w *bufferedResponseWriter) Written() bool { return w.buf.Len() > 0 || w.statusCode != 0 }

func (w *bufferedResponseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	return w.ResponseWriter.Hijack()
}

func (w *bufferedResponseWriter) mayCompress() bool {
	switch w.Status() {
	case http.StatusNoContent, http.StatusNotModified:
		return false
	}
	if w.Header().Get("Content-Encoding") != "" {
		return false
	}
	return isCompressibleContentType(w.Header().Get("Content-Type"))
}

// GzipResponseCompress буферизует ответ и сжимает его, когда клиент принимает
// gzip, тело достаточно велико и тип содержимого сжимаемый.
func GzipResponseCompress() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if ctx.Request.Method == http.MethodHead {
			ctx.Next()
			return
		}

		acceptEnc := strings.ToLower(ctx.GetHeader("Accept-Encoding"))
		if !strings.Contains(acceptEnc, "gzip") {
			ctx.Next()
			return
		}

		original := ctx.Writer
		bw := &bufferedResponseWriter{ResponseWriter: original}
		ctx.Writer = bw

		ctx.Next()

		ctx.Writer = original

		vary := original.Header().Get("Vary")
		if vary == "" {
			original.Header().Set("Vary", "Accept-Encoding")
		} else if !strings.Contains(vary, "Accept-Encoding") {
			original.Header().Set("Vary", vary+", Accept-Encoding")
		}

		if bw.buf.Len() >= minCompressSize && bw.mayCompress() {
			original.Header().Del("Content-Length")
			original.Header().Set("Content-Encoding", "gzip")
			original.WriteHeader(bw.Status())
			gw := gzip.NewWriter(original)
			if _, err := gw.Write(bw.buf.Bytes()); err != nil {
				_ = ctx.Error(errors.ErrGzipCompressionFailed)
			}
			if err := gw.Close(); err != nil {
				_ = ctx.Error(errors.ErrGzipCompressionFailed)
			}
			return
		}

		original.WriteHeader(bw.Status())
		if bw.buf.Len() > 0 {
			if _, err := original.Write(bw.buf.Bytes()); err != nil {
				_ = ctx.Error(err)
			}
		}
	}
}

func isCompressibleContentType(ct string) bool {
	if ct == "" {
		return false
	}

	lower := strings.ToLower(ct)
	if strings.HasPrefix(lower, "text/event-stream") {
		return false
	}

	compressiblePrefixes := []string{
		"application/json",
		"application/xml",
		"application/javascript",
		"text/html",
		"text/css",
		"text/plain",
		"text/xml",
		"text/javascript",
	}

	for _, prefix := range compressiblePrefixes {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}

	return false
}
