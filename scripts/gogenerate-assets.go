//go:build ignore
// +build ignore

package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/evanw/esbuild/pkg/api"
)

func main() {
	// Clean and recreate the dist tree
	os.RemoveAll("public/dist")
	if err := os.MkdirAll(filepath.Join("public", "dist", "js"), 0755); err != nil {
		log.Fatal(err)
	}

	if err := processJS(); err != nil {
		log.Fatalf("JS processing failed: %v", err)
	}

	if err := copyHTML(); err != nil {
		log.Fatalf("HTML copy failed: %v", err)
	}
}

func processJS() error {
	result := api.Build(api.BuildOptions{
		EntryPoints:       []string{"public/src/js/gatehouse.js"},
		Bundle:            true,
		MinifyWhitespace:  true,
		MinifyIdentifiers: true,
		MinifySyntax:      true,
		Drop:              api.DropConsole,
		Format:            api.FormatESModule,
		Target:            api.ES2017,
		Platform:          api.PlatformBrowser,
		Outfile:           "public/dist/js/gatehouse.min.js",
		Write:             true,
	})

	if len(result.Errors) > 0 {
		for _, err := range result.Errors {
			log.Printf("ESBuild error: %s", err.Text)
		}
		return fmt.Errorf("ESBuild failed with %d errors", len(result.Errors))
	}
	return nil
}

// copyHTML places HTML files at the dist root so the file server
// resolves "/" to index.html.
func copyHTML() error {
	return filepath.Walk("public/src/html", func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return err
		}

		relPath, _ := filepath.Rel("public/src/html", path)
		dest := filepath.Join("public/dist", relPath)

		os.MkdirAll(filepath.Dir(dest), 0755)

		srcFile, err := os.Open(path)
		if err != nil {
			return err
		}
		defer srcFile.Close()

		destFile, err := os.Create(dest)
		if err != nil {
			return err
		}
		defer destFile.Close()

		_, err = io.Copy(destFile, srcFile)
		return err
	})
}
