package steps

import (
	"context"
	"formflow/internal/forms/domain"
	"formflow/internal/forms/usecases"
)

func (fc *FeatureContext) iLoadTheFormsDirectory() error {
	fc.directory = usecases.NewDirectory(fc.api, nil).Load(context.Background(), 10)
	return nil
}

func (fc *FeatureContext) theDirectoryIsEmpty() error {
	fc.require.Equal(usecases.DirectoryEmpty, fc.directory.State)
	fc.require.NotNil(fc.directory.Forms)
	fc.require.Empty(fc.directory.Forms)
	fc.require.Empty(fc.directory.Error)
	return nil
}

func (fc *FeatureContext) theDirectoryLists(title string) error {
	fc.require.Equal(usecases.DirectoryLoaded, fc.directory.State)
	fc.require.Len(fc.directory.Forms, 1)
	fc.require.Equal(domain.Title(title), fc.directory.Forms[0].Title)
	return nil
}

func (fc *FeatureContext) theDirectoryShowsAnError() error {
	fc.require.Equal(usecases.DirectoryFailed, fc.directory.State)
	fc.require.Nil(fc.directory.Forms)
	fc.require.NotEmpty(fc.directory.Error)
	return nil
}
