// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/user"
	"path/filepath"
	"strings"
	"time"

	"github.com/devblok/doteki/utility/kar"
	log "github.com/sirupsen/logrus"
	"github.com/xlab/tablewriter"
)

func init() {
	currentUserName = "unknown"
	if u, err := user.Current(); err == nil {
		currentUserName = u.Username
	}
}

var (
	currentUserName string
	author          = flag.String("author", "", "Set the author of the package when compressing")
	version         = flag.Int64("version", 1, "Archive version number to create it with")
	extract         = flag.String("e", "", "Extract the archive given")
	list            = flag.String("l", "", "List the contents of the archive given")
	compress        = flag.String("c", "", "Compress the given file/folder")
	dstFile         = flag.String("f", "out.kar", "Destination file")
	dstDir          = flag.String("o", ".", "Destination directory when extracting")
	silent          = flag.Bool("s", false, "Silent")
)

func main() {
	flag.Parse()
	if *silent {
		log.SetLevel(log.WarnLevel)
	}

	ops := 0
	for _, op := range []string{*extract, *list, *compress} {
		if op != "" {
			ops++
		}
	}
	if ops > 1 {
		log.Fatalln(errors.New("only one operation at a time"))
	}

	var err error
	switch {
	case *compress != "":
		err = compressFiles(*compress, *dstFile)
	case *list != "":
		err = listFiles(*list)
	case *extract != "":
		err = extractFiles(*extract, *dstDir)
	default:
		flag.PrintDefaults()
		return
	}
	if err != nil {
		log.Fatalln(err)
	}
}

func compressFiles(src, dst string) error {
	if _, err := os.Stat(dst); err == nil {
		return errors.New("destination file exists, will not overwrite")
	}

	var filesToCompress []string
	if err := filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		filesToCompress = append(filesToCompress, path)
		return nil
	}); err != nil {
		return err
	}

	name := *author
	if name == "" {
		name = currentUserName
	}
	karBuilder, err := kar.NewBuilder(kar.Header{
		Author:      name,
		DateCreated: time.Now().Unix(),
		Version:     *version,
	})
	if err != nil {
		return err
	}
	defer karBuilder.Close()

	for _, ftc := range filesToCompress {
		entry, err := entryName(src, ftc)
		if err != nil {
			return err
		}
		if err := addFile(karBuilder, entry, ftc); err != nil {
			return err
		}
		log.WithField("file", entry).Info("added")
	}

	f, err := os.Create(dst)
	if err != nil {
		return err
	}
	written, err := karBuilder.WriteTo(f)
	if err != nil {
		f.Close()
		os.Remove(dst)
		return err
	}
	log.WithFields(log.Fields{
		"archive": dst,
		"files":   len(filesToCompress),
		"bytes":   written,
	}).Info("archive written")
	return f.Close()
}

// entryName is the slash separated path of file relative to src,
// or its base name when src is the file itself.
func entryName(src, file string) (string, error) {
	rel, err := filepath.Rel(src, file)
	if err != nil {
		return "", err
	}
	if rel == "." {
		rel = filepath.Base(file)
	}
	return filepath.ToSlash(rel), nil
}

func addFile(b *kar.Builder, name, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return b.Add(name, f)
}

func listFiles(path string) error {
	ar, err := kar.OpenFile(path)
	if err != nil {
		return err
	}
	defer ar.Close()

	header := ar.Header()
	table := tablewriter.CreateTable()
	table.UTF8Box()
	table.AddTitle(fmt.Sprintf("%s BY %s, VERSION %d, %s", filepath.Base(path), header.Author,
		header.Version, time.Unix(header.DateCreated, 0).Format(time.RFC3339)))
	table.AddRow("Name", "Size", "Compressed")
	for _, name := range ar.Names() {
		e, _ := ar.Entry(name)
		table.AddRow(name, e.Size, e.CompressedSize)
	}
	fmt.Println(table.Render())
	return nil
}

func extractFiles(path, dst string) error {
	ar, err := kar.OpenFile(path)
	if err != nil {
		return err
	}
	defer ar.Close()

	for _, name := range ar.Names() {
		target := filepath.Join(dst, filepath.FromSlash(name))
		if rel, err := filepath.Rel(dst, target); err != nil || strings.HasPrefix(rel, "..") {
			return fmt.Errorf("refusing to extract %s outside of %s", name, dst)
		}
		if err := extractFile(ar, name, target); err != nil {
			return err
		}
		log.WithField("file", target).Info("extracted")
	}
	return nil
}

func extractFile(ar *kar.Archive, name, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return err
	}
	r, err := ar.Open(name)
	if err != nil {
		return err
	}
	defer r.Close()

	f, err := os.Create(target)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
