package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vesper-engine/vesper/engine/vfs"
)

func packDir(dir, dst string) error {
	builder := vfs.NewBuilder(vfs.Header{
		Author:      *author,
		Version:     *version,
		DateCreated: time.Now().Unix(),
	})

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		return builder.Add(filepath.ToSlash(rel), data)
	})
	if err != nil {
		return err
	}

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()
	n, err := builder.WriteTo(out)
	if err != nil {
		return err
	}
	fmt.Printf("wrote %s (%d bytes)\n", dst, n)
	return nil
}

func openArchive(path string) (*vfs.Pak, *os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	pak, err := vfs.OpenPak(f)
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	return pak, f, nil
}

func listArchive(path string) error {
	pak, f, err := openArchive(path)
	if err != nil {
		return err
	}
	defer f.Close()
	fmt.Printf("%s build %s\n", path, pak.BuildID())
	for _, name := range pak.Names() {
		fmt.Println(" ", name)
	}
	return nil
}

func extractFile(path, name string) error {
	pak, f, err := openArchive(path)
	if err != nil {
		return err
	}
	defer f.Close()
	data, err := pak.ReadAll(strings.TrimPrefix(name, "/"))
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}
