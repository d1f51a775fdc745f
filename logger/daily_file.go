package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// dailyFile 按日期切分的日志文件
//
// 每次写入前检查日期，跨天后关闭旧文件并打开 <baseName>-YYYY-MM-DD.log
type dailyFile struct {
	dir      string
	baseName string
	now      func() time.Time

	mu          sync.Mutex
	currentDate string
	file        *os.File
}

func newDailyFile(dir, baseName string) (*dailyFile, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	f := &dailyFile{dir: dir, baseName: baseName, now: time.Now}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.rotateLocked(); err != nil {
		return nil, err
	}
	return f, nil
}

// rotateLocked 日期变化时切换文件，调用方需持有锁
func (f *dailyFile) rotateLocked() error {
	date := f.now().Format("2006-01-02")
	if date == f.currentDate && f.file != nil {
		return nil
	}

	path := filepath.Join(f.dir, f.baseName+"-"+date+".log")
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	if f.file != nil {
		f.file.Close()
	}
	f.file = file
	f.currentDate = date
	return nil
}

// Write 实现 io.Writer
func (f *dailyFile) Write(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.rotateLocked(); err != nil {
		return 0, err
	}
	return f.file.Write(p)
}

// Close 关闭当前日志文件
func (f *dailyFile) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.file == nil {
		return nil
	}
	err := f.file.Close()
	f.file = nil
	return err
}
