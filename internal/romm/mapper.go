package romm

import "github.com/romdeck/romdeck/internal/domain"

// MapPlatforms converts platform DTOs to domain platforms
func MapPlatforms(dtos []platformDTO) []domain.Platform {
	platforms := make([]domain.Platform, 0, len(dtos))
	for _, d := range dtos {
		platforms = append(platforms, domain.Platform{
			ID:       d.ID,
			Slug:     d.Slug,
			Name:     d.Name,
			RomCount: d.RomCount,
		})
	}
	return platforms
}

// MapRoms converts rom DTOs to domain roms
func MapRoms(dtos []romDTO) []domain.Rom {
	roms := make([]domain.Rom, 0, len(dtos))
	for _, d := range dtos {
		roms = append(roms, MapRom(d))
	}
	return roms
}

// MapRom converts a single rom DTO to a domain rom
func MapRom(d romDTO) domain.Rom {
	return domain.Rom{
		ID:             d.ID,
		Name:           d.Name,
		FileName:       d.FileName,
		FileNameNoExt:  d.FileNameNoExt,
		FileNameNoTags: d.FileNameNoTags,
		FileSizeBytes:  d.FileSizeBytes,
		PlatformID:     d.PlatformID,
		PlatformSlug:   d.PlatformSlug,
		Genres:         d.Genres,
		Franchises:     d.Franchises,
		Companies:      d.Companies,
		Collections:    d.Collections,
		Languages:      d.Languages,
		Regions:        d.Regions,
		Tags:           d.Tags,
		Summary:        d.Summary,
		CoverURL:       d.URLCover,
		Multi:          d.Multi,
		Saves:          MapAssets(d.UserSaves),
		States:         MapAssets(d.UserStates),
		Screenshots:    MapAssets(d.UserScreenshots),
	}
}

// MapAssets converts asset DTOs to domain assets
func MapAssets(dtos []assetDTO) []domain.Asset {
	if len(dtos) == 0 {
		return nil
	}
	assets := make([]domain.Asset, 0, len(dtos))
	for _, d := range dtos {
		assets = append(assets, MapAsset(d))
	}
	return assets
}

// MapAsset converts a single asset DTO to a domain asset
func MapAsset(d assetDTO) domain.Asset {
	return domain.Asset{
		ID:           d.ID,
		RomID:        d.RomID,
		FileName:     d.FileName,
		DownloadPath: d.DownloadPath,
		ScreenshotID: d.ScreenshotID,
	}
}
