// Package propertysvc - service bất động sản (Property).
package propertysvc

import (
	"context"
	"fmt"
	"mime/multipart"

	basesvc "estate_crm/internal/api/base/service"
	propertydto "estate_crm/internal/api/property/dto"
	models "estate_crm/internal/api/property/models"
	"estate_crm/internal/common"
	"estate_crm/internal/global"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// cloudinaryFolder là folder lưu ảnh bất động sản trên Cloudinary
const cloudinaryFolder = "estate_crm/properties"

// PropertyService là cấu trúc chứa các phương thức liên quan đến bất động sản
type PropertyService struct {
	*basesvc.BaseServiceMongoImpl[models.Property]
	cld *cloudinary.Cloudinary
}

// NewPropertyService tạo mới PropertyService.
// Cloudinary chỉ được khởi tạo khi CLOUDINARY_URL được cấu hình, các thao tác
// ảnh sẽ báo lỗi rõ ràng khi thiếu cấu hình.
func NewPropertyService() (*PropertyService, error) {
	propertyCollection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Properties)
	if !exist {
		return nil, fmt.Errorf("failed to get properties collection: %v", common.ErrNotFound)
	}

	svc := &PropertyService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.Property](propertyCollection),
	}

	if global.ServerConfig != nil && global.ServerConfig.CloudinaryURL != "" {
		cld, err := cloudinary.NewFromURL(global.ServerConfig.CloudinaryURL)
		if err != nil {
			return nil, fmt.Errorf("failed to init cloudinary: %w", err)
		}
		svc.cld = cld
	}

	return svc, nil
}

// Create tạo bất động sản mới, trạng thái mặc định là Active
func (s *PropertyService) Create(ctx context.Context, input *propertydto.PropertyCreateInput) (*models.Property, error) {
	if !models.IsValidPropertyType(input.Type) {
		return nil, common.NewError(common.ErrCodeValidationInput, fmt.Sprintf("Loại bất động sản không hợp lệ: %s", input.Type), common.StatusBadRequest, nil)
	}
	status := input.Status
	if status == "" {
		status = models.PropertyStatusActive
	}
	if !models.IsValidPropertyStatus(status) {
		return nil, common.NewError(common.ErrCodeValidationInput, fmt.Sprintf("Trạng thái không hợp lệ: %s", status), common.StatusBadRequest, nil)
	}

	property := models.Property{
		Title:       input.Title,
		Description: input.Description,
		Address:     input.Address,
		Price:       input.Price,
		Beds:        input.Beds,
		Baths:       input.Baths,
		Sqft:        input.Sqft,
		Type:        input.Type,
		Status:      status,
		Featured:    input.Featured,
		Images:      []models.PropertyImage{},
	}
	if input.Agent != "" {
		agentID, err := primitive.ObjectIDFromHex(input.Agent)
		if err != nil {
			return nil, common.NewError(common.ErrCodeValidationFormat, "Agent ID không hợp lệ", common.StatusBadRequest, err)
		}
		property.Agent = &agentID
	}

	created, err := s.BaseServiceMongoImpl.InsertOne(ctx, property)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// Update cập nhật bất động sản, chỉ ghi đè các trường được cung cấp
func (s *PropertyService) Update(ctx context.Context, id primitive.ObjectID, input *propertydto.PropertyUpdateInput) (*models.Property, error) {
	set := map[string]interface{}{}
	unset := map[string]interface{}{}

	if input.Title != "" {
		set["title"] = input.Title
	}
	if input.Description != "" {
		set["description"] = input.Description
	}
	if input.Address != "" {
		set["address"] = input.Address
	}
	if input.Price != nil {
		set["price"] = *input.Price
	}
	if input.Beds != nil {
		set["beds"] = *input.Beds
	}
	if input.Baths != nil {
		set["baths"] = *input.Baths
	}
	if input.Sqft != nil {
		set["sqft"] = *input.Sqft
	}
	if input.Type != "" {
		if !models.IsValidPropertyType(input.Type) {
			return nil, common.NewError(common.ErrCodeValidationInput, fmt.Sprintf("Loại bất động sản không hợp lệ: %s", input.Type), common.StatusBadRequest, nil)
		}
		set["type"] = input.Type
	}
	if input.Status != "" {
		if !models.IsValidPropertyStatus(input.Status) {
			return nil, common.NewError(common.ErrCodeValidationInput, fmt.Sprintf("Trạng thái không hợp lệ: %s", input.Status), common.StatusBadRequest, nil)
		}
		set["status"] = input.Status
	}
	if input.Agent != nil {
		if *input.Agent == "" {
			unset["agent"] = ""
		} else {
			agentID, err := primitive.ObjectIDFromHex(*input.Agent)
			if err != nil {
				return nil, common.NewError(common.ErrCodeValidationFormat, "Agent ID không hợp lệ", common.StatusBadRequest, err)
			}
			set["agent"] = agentID
		}
	}
	if input.Featured != nil {
		set["featured"] = *input.Featured
	}

	if len(set) == 0 && len(unset) == 0 {
		return nil, common.NewError(common.ErrCodeValidationInput, "Không có trường nào để cập nhật", common.StatusBadRequest, nil)
	}

	updateData := &basesvc.UpdateData{Set: set}
	if len(unset) > 0 {
		updateData.Unset = unset
	}
	updated, err := s.BaseServiceMongoImpl.UpdateById(ctx, id, updateData)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// UploadImage upload một ảnh lên Cloudinary và gắn vào bất động sản
func (s *PropertyService) UploadImage(ctx context.Context, id primitive.ObjectID, fileHeader *multipart.FileHeader) (*models.Property, error) {
	if s.cld == nil {
		return nil, common.NewError(common.ErrCodeBusinessOperation, "Upload ảnh chưa được cấu hình", common.StatusServiceUnavailable, nil)
	}

	// Kiểm tra bất động sản tồn tại trước khi upload
	if _, err := s.BaseServiceMongoImpl.FindOneById(ctx, id); err != nil {
		return nil, err
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, common.NewError(common.ErrCodeValidationFormat, "Không thể đọc file upload", common.StatusBadRequest, err)
	}
	defer file.Close()

	uploadResult, err := s.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder: cloudinaryFolder,
	})
	if err != nil {
		logrus.WithFields(logrus.Fields{"property_id": id.Hex(), "error": err.Error()}).Error("UploadImage: Lỗi upload lên Cloudinary")
		return nil, common.NewError(common.ErrCodeBusinessOperation, "Upload ảnh thất bại", common.StatusInternalServerError, err)
	}

	image := models.PropertyImage{
		URL:      uploadResult.SecureURL,
		PublicID: uploadResult.PublicID,
	}
	updateData := &basesvc.UpdateData{
		Push: map[string]interface{}{"images": image},
	}
	updated, err := s.BaseServiceMongoImpl.UpdateById(ctx, id, updateData)
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{"property_id": id.Hex(), "public_id": image.PublicID}).Info("UploadImage: Upload ảnh thành công")
	return &updated, nil
}

// DeleteImage xóa ảnh khỏi Cloudinary và gỡ khỏi bất động sản
func (s *PropertyService) DeleteImage(ctx context.Context, id primitive.ObjectID, publicID string) (*models.Property, error) {
	if s.cld == nil {
		return nil, common.NewError(common.ErrCodeBusinessOperation, "Upload ảnh chưa được cấu hình", common.StatusServiceUnavailable, nil)
	}

	property, err := s.BaseServiceMongoImpl.FindOneById(ctx, id)
	if err != nil {
		return nil, err
	}

	found := false
	newImages := make([]models.PropertyImage, 0, len(property.Images))
	for _, img := range property.Images {
		if img.PublicID == publicID {
			found = true
			continue
		}
		newImages = append(newImages, img)
	}
	if !found {
		return nil, common.NewError(common.ErrCodeDatabaseQuery, "Không tìm thấy ảnh", common.StatusNotFound, nil)
	}

	if _, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID}); err != nil {
		// Không fail thao tác nếu Cloudinary lỗi, ảnh mồ côi sẽ dọn sau
		logrus.WithFields(logrus.Fields{"property_id": id.Hex(), "public_id": publicID, "error": err.Error()}).Warn("DeleteImage: Lỗi xóa ảnh trên Cloudinary")
	}

	updateData := &basesvc.UpdateData{
		Set: map[string]interface{}{"images": newImages},
	}
	updated, err := s.BaseServiceMongoImpl.UpdateById(ctx, id, updateData)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete xóa bất động sản và toàn bộ ảnh của nó trên Cloudinary
func (s *PropertyService) Delete(ctx context.Context, id primitive.ObjectID) error {
	property, err := s.BaseServiceMongoImpl.FindOneById(ctx, id)
	if err != nil {
		return err
	}

	if s.cld != nil {
		for _, img := range property.Images {
			if _, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: img.PublicID}); err != nil {
				logrus.WithFields(logrus.Fields{"property_id": id.Hex(), "public_id": img.PublicID, "error": err.Error()}).Warn("Delete: Lỗi xóa ảnh trên Cloudinary")
			}
		}
	}

	return s.BaseServiceMongoImpl.DeleteById(ctx, id)
}
