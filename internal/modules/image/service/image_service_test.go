package service

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"slices"
	"strings"
	"testing"
	"time"

	"spectra-server/internal/events"
	"spectra-server/internal/model"
	"spectra-server/internal/modules/image/dto"
	platformservice "spectra-server/internal/platform/service"
	"spectra-server/internal/testutils"
	"spectra-server/internal/utils"

	"go.uber.org/zap"
)

func pngUpload(t *testing.T, ownerID, title string, w, h int) UploadInput {
	t.Helper()
	data := testutils.PNG(t, w, h)
	return UploadInput{
		OwnerID:     ownerID,
		Title:       title,
		FileName:    strings.ToLower(title) + ".png",
		ContentType: "image/png",
		Size:        int64(len(data)),
		Content:     bytes.NewReader(data),
	}
}

// 测试内容：验证上传 800x600 的 PNG 后尺寸、计数与所有权标记，并验证其他用户与匿名用户看到的点赞状态。
func TestUpload_CatScenario(t *testing.T) {
	env := setupTestService(t)
	ctx := context.Background()
	a := testutils.CreateUser(t, env.db, "alice")
	b := testutils.CreateUser(t, env.db, "bob")

	item, err := env.service.Upload(ctx, pngUpload(t, a.ID, "Cat", 800, 600))
	if err != nil {
		t.Fatalf("上传失败: %v", err)
	}
	if item.Width == nil || *item.Width != 800 || item.Height == nil || *item.Height != 600 {
		t.Fatalf("期望尺寸 800x600，实际为 %v x %v", item.Width, item.Height)
	}
	if item.LikeCount != 0 || item.CommentCount != 0 || !item.IsOwnedByCurrentUser {
		t.Fatalf("期望零计数且为上传者所有，实际为 %+v", item)
	}
	if item.UserDisplayName != "alice" || item.OriginalFileName != "cat.png" || item.ContentType != "image/png" {
		t.Fatalf("期望所有者与文件信息正确，实际为 %+v", item)
	}
	if !strings.HasPrefix(item.ImageURL, "http://localhost:8080/uploads/images/") || !strings.HasSuffix(item.ImageURL, ".png") {
		t.Fatalf("期望定位符为 base/{uuid}.png，实际为 %q", item.ImageURL)
	}
	if env.blobCount(t) != 1 {
		t.Fatalf("期望写入 1 个 blob，实际为 %d", env.blobCount(t))
	}
	if got := env.publisher.types(); !slices.Equal(got, []string{events.TypeImageUploaded}) {
		t.Fatalf("期望发布 image.uploaded，实际为 %v", got)
	}

	page, err := env.service.ListAll(ctx, b.ID, dto.PaginationRequest{Page: 1, PageSize: 20})
	if err != nil || len(page.Items) != 1 {
		t.Fatalf("期望全局列表 1 条，实际为 %v err=%v", page, err)
	}
	if page.Items[0].IsOwnedByCurrentUser || page.Items[0].IsLikedByCurrentUser {
		t.Fatalf("期望 B 看到未拥有未点赞，实际为 %+v", page.Items[0])
	}

	testutils.Like(t, env.db, b.ID, item.ID)

	byB, err := env.service.Get(ctx, b.ID, item.ID)
	if err != nil {
		t.Fatalf("Get 返回错误: %v", err)
	}
	if byB.LikeCount != 1 || !byB.IsLikedByCurrentUser {
		t.Fatalf("期望 B 看到 likeCount=1 且已点赞，实际为 %+v", byB)
	}
	anon, err := env.service.Get(ctx, "", item.ID)
	if err != nil {
		t.Fatalf("Get 返回错误: %v", err)
	}
	if anon.LikeCount != 1 || anon.IsLikedByCurrentUser || anon.IsOwnedByCurrentUser {
		t.Fatalf("期望匿名用户看到 likeCount=1 且未点赞，实际为 %+v", anon)
	}
}

// 测试内容：验证超过大小限制的上传被拒绝，且不产生记录与 blob。
func TestUpload_OversizeLeavesNoTrace(t *testing.T) {
	env := setupTestService(t)
	owner := testutils.CreateUser(t, env.db, "alice")

	data := testutils.PNG(t, 10, 10)
	_, err := env.service.Upload(context.Background(), UploadInput{
		OwnerID:     owner.ID,
		Title:       "big",
		FileName:    "big.png",
		ContentType: "image/png",
		Size:        utils.MaxImageUploadBytes + 1,
		Content:     bytes.NewReader(data),
	})
	if !platformservice.IsCode(err, platformservice.ErrorCodeValidation) {
		t.Fatalf("期望 validation 错误，实际为 %v", err)
	}

	var count int64
	env.db.Model(&model.Image{}).Count(&count)
	if count != 0 || env.blobCount(t) != 0 {
		t.Fatalf("期望无记录无 blob，实际为 records=%d blobs=%d", count, env.blobCount(t))
	}
	if len(env.publisher.types()) != 0 {
		t.Fatalf("期望不发布事件，实际为 %v", env.publisher.types())
	}
}

// 测试内容：验证元数据长度与内容校验的错误信息。
func TestUpload_RejectsInvalidInput(t *testing.T) {
	env := setupTestService(t)
	owner := testutils.CreateUser(t, env.db, "alice")
	ctx := context.Background()

	in := pngUpload(t, owner.ID, "ok", 4, 4)
	in.Title = "  "
	if _, err := env.service.Upload(ctx, in); err == nil || err.Error() != "Title is required" {
		t.Fatalf("期望 Title is required，实际为 %v", err)
	}

	in = pngUpload(t, owner.ID, strings.Repeat("图", 201), 4, 4)
	if _, err := env.service.Upload(ctx, in); !platformservice.IsCode(err, platformservice.ErrorCodeValidation) {
		t.Fatalf("期望标题超长被拒绝，实际为 %v", err)
	}

	in = pngUpload(t, owner.ID, strings.Repeat("图", 200), 4, 4)
	if _, err := env.service.Upload(ctx, in); err != nil {
		t.Fatalf("期望 200 个字符的标题通过，实际为 %v", err)
	}

	garbage := []byte("definitely not an image")
	_, err := env.service.Upload(ctx, UploadInput{
		OwnerID:     owner.ID,
		Title:       "broken",
		FileName:    "broken.png",
		ContentType: "image/png",
		Size:        int64(len(garbage)),
		Content:     bytes.NewReader(garbage),
	})
	if err == nil || err.Error() != "File is not a valid image or is corrupted" {
		t.Fatalf("期望无效图片错误，实际为 %v", err)
	}
}

// 测试内容：验证非所有者与不存在的图片返回完全相同的错误。
func TestUpdateAndDelete_CollapsedDenial(t *testing.T) {
	env := setupTestService(t)
	ctx := context.Background()
	owner := testutils.CreateUser(t, env.db, "alice")
	other := testutils.CreateUser(t, env.db, "mallory")
	img := testutils.CreateImage(t, env.db, owner.ID, "pic", time.Time{})

	_, notOwner := env.service.Update(ctx, other.ID, img.ID, UpdateInput{Title: "hacked"})
	_, missing := env.service.Update(ctx, other.ID, "no-such-image", UpdateInput{Title: "hacked"})
	if notOwner == nil || missing == nil {
		t.Fatalf("期望两者都返回错误")
	}
	if notOwner.Error() != missing.Error() || notOwner.Error() != "image not found or not authorized" {
		t.Fatalf("期望错误信息一致，实际为 %q 与 %q", notOwner.Error(), missing.Error())
	}
	if !platformservice.IsCode(notOwner, platformservice.ErrorCodeNotFound) || !platformservice.IsCode(missing, platformservice.ErrorCodeNotFound) {
		t.Fatalf("期望两者都是 not_found")
	}

	delNotOwner := env.service.Delete(ctx, other.ID, img.ID)
	delMissing := env.service.Delete(ctx, other.ID, "no-such-image")
	if delNotOwner == nil || delMissing == nil || delNotOwner.Error() != delMissing.Error() {
		t.Fatalf("期望删除的错误信息一致，实际为 %v 与 %v", delNotOwner, delMissing)
	}

	var stored model.Image
	if err := env.db.First(&stored, "id = ?", img.ID).Error; err != nil || stored.Title != "pic" {
		t.Fatalf("期望图片未被修改，实际为 %q err=%v", stored.Title, err)
	}
}

// 测试内容：验证所有者更新只修改可变字段，空串清空可选字段。
func TestUpdate_OwnerChangesMetadata(t *testing.T) {
	env := setupTestService(t)
	ctx := context.Background()
	owner := testutils.CreateUser(t, env.db, "alice")
	img := testutils.CreateImage(t, env.db, owner.ID, "pic", time.Now().UTC().Add(-time.Hour))

	item, err := env.service.Update(ctx, owner.ID, img.ID, UpdateInput{Title: "New", Description: "desc", Tags: "a,b"})
	if err != nil {
		t.Fatalf("更新失败: %v", err)
	}
	if item.Title != "New" || item.Description == nil || *item.Description != "desc" || item.Tags == nil || *item.Tags != "a,b" {
		t.Fatalf("期望元数据被更新，实际为 %+v", item)
	}
	if item.ImageURL != img.ImageURL || item.FileSizeBytes != img.FileSizeBytes || !item.IsOwnedByCurrentUser {
		t.Fatalf("期望不可变字段保持不变，实际为 %+v", item)
	}
	if !item.UpdatedAt.After(img.UpdatedAt) {
		t.Fatalf("期望 updatedAt 前进，实际为 %v", item.UpdatedAt)
	}

	item, err = env.service.Update(ctx, owner.ID, img.ID, UpdateInput{Title: "New"})
	if err != nil {
		t.Fatalf("更新失败: %v", err)
	}
	if item.Description != nil || item.Tags != nil {
		t.Fatalf("期望可选字段被清空，实际为 %+v", item)
	}
}

// 测试内容：验证所有者删除会移除 blob 与记录，重复删除同一 blob 不报错。
func TestDelete_RemovesBlobAndRecord(t *testing.T) {
	env := setupTestService(t)
	ctx := context.Background()
	owner := testutils.CreateUser(t, env.db, "alice")

	item, err := env.service.Upload(ctx, pngUpload(t, owner.ID, "Cat", 16, 16))
	if err != nil {
		t.Fatalf("上传失败: %v", err)
	}
	if err := env.service.Delete(ctx, owner.ID, item.ID); err != nil {
		t.Fatalf("删除失败: %v", err)
	}
	if env.blobCount(t) != 0 {
		t.Fatalf("期望 blob 被删除，实际剩余 %d", env.blobCount(t))
	}
	if _, err := env.service.Get(ctx, owner.ID, item.ID); !platformservice.IsCode(err, platformservice.ErrorCodeNotFound) {
		t.Fatalf("期望删除后 not_found，实际为 %v", err)
	}
	if err := env.blobs.Delete(ctx, item.ImageURL); err != nil {
		t.Fatalf("期望重复删除 blob 不报错，实际为 %v", err)
	}
	if got := env.publisher.types(); !slices.Equal(got, []string{events.TypeImageUploaded, events.TypeImageDeleted}) {
		t.Fatalf("期望事件 uploaded, deleted，实际为 %v", got)
	}
}

// 测试内容：验证 blob 删除失败时记录仍被删除并发布孤儿事件。
func TestDelete_BlobFailureIsBestEffort(t *testing.T) {
	env := setupTestService(t)
	ctx := context.Background()
	owner := testutils.CreateUser(t, env.db, "alice")
	img := testutils.CreateImage(t, env.db, owner.ID, "pic", time.Time{})

	svc := New(env.service.imageStore, env.service.counters, failingBlobStore{env.blobs}, env.publisher, zap.NewNop())
	if err := svc.Delete(ctx, owner.ID, img.ID); err != nil {
		t.Fatalf("期望删除成功，实际为 %v", err)
	}

	var count int64
	env.db.Model(&model.Image{}).Where("id = ?", img.ID).Count(&count)
	if count != 0 {
		t.Fatalf("期望记录被删除，实际剩余 %d", count)
	}
	if got := env.publisher.types(); !slices.Equal(got, []string{events.TypeBlobOrphaned, events.TypeImageDeleted}) {
		t.Fatalf("期望事件 blob.orphaned, image.deleted，实际为 %v", got)
	}
}

// 测试内容：验证所有者缺少显示名时回退为 Unknown User。
func TestGet_UnknownUserFallback(t *testing.T) {
	env := setupTestService(t)
	u := model.User{UserName: "ghost"}
	if err := env.db.Create(&u).Error; err != nil {
		t.Fatalf("创建用户失败: %v", err)
	}
	img := testutils.CreateImage(t, env.db, u.ID, "pic", time.Time{})

	item, err := env.service.Get(context.Background(), "", img.ID)
	if err != nil {
		t.Fatalf("Get 返回错误: %v", err)
	}
	if item.UserDisplayName != "Unknown User" {
		t.Fatalf("期望 Unknown User，实际为 %q", item.UserDisplayName)
	}
}

// 测试内容：验证 25 张图片的分页信息，以及分页参数的下限与上限。
func TestListByOwner_PageMath(t *testing.T) {
	env := setupTestService(t)
	ctx := context.Background()
	owner := testutils.CreateUser(t, env.db, "alice")
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 25; i++ {
		testutils.CreateImage(t, env.db, owner.ID, fmt.Sprintf("img%02d", i), base.Add(time.Duration(i)*time.Minute))
	}

	p1, err := env.service.ListByOwner(ctx, owner.ID, owner.ID, dto.PaginationRequest{Page: 1, PageSize: 20})
	if err != nil {
		t.Fatalf("ListByOwner 返回错误: %v", err)
	}
	if len(p1.Items) != 20 || p1.TotalCount != 25 || p1.TotalPages != 2 || !p1.HasNextPage || p1.HasPreviousPage {
		t.Fatalf("第一页分页信息错误: %+v", p1)
	}
	if p1.Items[0].Title != "img24" || !p1.Items[0].IsOwnedByCurrentUser {
		t.Fatalf("期望最新图片在前且为所有者，实际为 %+v", p1.Items[0])
	}

	p2, err := env.service.ListByOwner(ctx, "", owner.ID, dto.PaginationRequest{Page: 2, PageSize: 20})
	if err != nil {
		t.Fatalf("ListByOwner 返回错误: %v", err)
	}
	if len(p2.Items) != 5 || p2.HasNextPage || !p2.HasPreviousPage || p2.Items[0].IsOwnedByCurrentUser {
		t.Fatalf("第二页分页信息错误: %+v", p2)
	}

	clamped, err := env.service.ListByOwner(ctx, "", owner.ID, dto.PaginationRequest{Page: -3, PageSize: 500})
	if err != nil {
		t.Fatalf("ListByOwner 返回错误: %v", err)
	}
	if clamped.Page != 1 || clamped.PageSize != 50 || len(clamped.Items) != 25 || clamped.TotalPages != 1 {
		t.Fatalf("期望 page=1 pageSize=50，实际为 %+v", clamped)
	}
}

// 测试内容：验证未关注任何人的 feed 为空页，匿名访问 feed 被拒绝。
func TestListFeed_EmptyAndAnonymous(t *testing.T) {
	env := setupTestService(t)
	ctx := context.Background()
	alice := testutils.CreateUser(t, env.db, "alice")
	bob := testutils.CreateUser(t, env.db, "bob")
	testutils.CreateImage(t, env.db, alice.ID, "pic", time.Time{})

	page, err := env.service.ListFeed(ctx, bob.ID, dto.PaginationRequest{Page: 1, PageSize: 20})
	if err != nil {
		t.Fatalf("ListFeed 返回错误: %v", err)
	}
	if page.Items == nil || len(page.Items) != 0 || page.TotalCount != 0 || page.TotalPages != 0 || page.HasNextPage {
		t.Fatalf("期望空页，实际为 %+v", page)
	}

	testutils.Follow(t, env.db, bob.ID, alice.ID)
	page, err = env.service.ListFeed(ctx, bob.ID, dto.PaginationRequest{Page: 1, PageSize: 20})
	if err != nil || page.TotalCount != 1 {
		t.Fatalf("期望关注后 feed 有 1 条，实际为 %+v err=%v", page, err)
	}

	if _, err := env.service.ListFeed(ctx, "", dto.PaginationRequest{Page: 1, PageSize: 20}); !platformservice.IsCode(err, platformservice.ErrorCodeUnauthorized) {
		t.Fatalf("期望匿名访问 feed 返回 unauthorized，实际为 %v", err)
	}
}

// 测试内容：验证分页参数规范化与总页数计算。
func TestNormalizePaginationAndNewPage(t *testing.T) {
	cases := []struct {
		page, size         int
		wantPage, wantSize int
	}{
		{0, 0, 1, 1},
		{1, 20, 1, 20},
		{5, 51, 5, 50},
		{-1, -5, 1, 1},
	}
	for _, c := range cases {
		p, s := NormalizePagination(c.page, c.size)
		if p != c.wantPage || s != c.wantSize {
			t.Fatalf("NormalizePagination(%d,%d) 期望 (%d,%d)，实际为 (%d,%d)", c.page, c.size, c.wantPage, c.wantSize, p, s)
		}
	}

	if got := NewPage(nil, 41, 3, 20); got.TotalPages != 3 || got.HasNextPage || !got.HasPreviousPage || got.Items == nil {
		t.Fatalf("期望 totalPages=3 且为最后一页，实际为 %+v", got)
	}
}

// 测试内容：验证 blob 写入成功但记录写入失败时返回不含底层原因的内部错误，blob 保留且发布孤儿事件。
func TestUpload_RecordCreateFailure(t *testing.T) {
	env := setupTestService(t)
	ctx := context.Background()
	a := testutils.CreateUser(t, env.db, "alice")
	svc := New(failingImageStore{env.service.imageStore}, env.service.counters, env.blobs, env.publisher, zap.NewNop())

	item, err := svc.Upload(ctx, pngUpload(t, a.ID, "Cat", 32, 32))
	if err == nil || item != nil {
		t.Fatalf("期望上传失败，实际为 item=%+v err=%v", item, err)
	}
	serviceErr, ok := platformservice.AsServiceError(err)
	if !ok || serviceErr.Code != platformservice.ErrorCodeInternal {
		t.Fatalf("期望 internal 错误，实际为 %v", err)
	}
	if strings.Contains(serviceErr.Message, "secret-dsn") || strings.Contains(serviceErr.Message, "locked") {
		t.Fatalf("期望错误消息不泄露底层原因，实际为 %q", serviceErr.Message)
	}
	if env.blobCount(t) != 1 {
		t.Fatalf("期望保留 1 个 blob 待清理，实际为 %d", env.blobCount(t))
	}
	last := env.publisher.last()
	if last.Type != events.TypeBlobOrphaned || last.Reason != "record_create_failed" || last.UserID != a.ID || last.Locator == "" {
		t.Fatalf("期望发布 blob.orphaned(record_create_failed)，实际为 %+v", last)
	}
	if got := env.publisher.types(); slices.Contains(got, events.TypeImageUploaded) {
		t.Fatalf("期望不发布 image.uploaded，实际为 %v", got)
	}
	var count int64
	env.db.Model(&model.Image{}).Count(&count)
	if count != 0 {
		t.Fatalf("期望没有图片记录，实际为 %d", count)
	}
}

// 测试内容：验证内容类型先去空白转小写再校验，记录中保存的是规范化后的值。
func TestUpload_NormalizesContentType(t *testing.T) {
	env := setupTestService(t)
	a := testutils.CreateUser(t, env.db, "alice")

	in := pngUpload(t, a.ID, "Cat", 8, 8)
	in.ContentType = " Image/PNG "
	item, err := env.service.Upload(context.Background(), in)
	if err != nil {
		t.Fatalf("上传失败: %v", err)
	}
	if item.ContentType != "image/png" {
		t.Fatalf("期望保存 image/png，实际为 %q", item.ContentType)
	}
	var stored model.Image
	if err := env.db.First(&stored, "id = ?", item.ID).Error; err != nil || stored.ContentType != "image/png" {
		t.Fatalf("期望记录中为 image/png，实际为 %q err=%v", stored.ContentType, err)
	}
}

// 测试内容：验证页码接近 int 上限时列表返回空页，总数不变且没有下一页。
func TestListAll_HugePage(t *testing.T) {
	env := setupTestService(t)
	ctx := context.Background()
	a := testutils.CreateUser(t, env.db, "alice")
	for i := 0; i < 3; i++ {
		testutils.CreateImage(t, env.db, a.ID, fmt.Sprintf("img%d", i), time.Now().Add(time.Duration(i)*time.Second))
	}

	page, err := env.service.ListAll(ctx, "", dto.PaginationRequest{Page: math.MaxInt64/20 + 2, PageSize: 20})
	if err != nil {
		t.Fatalf("ListAll 返回错误: %v", err)
	}
	if len(page.Items) != 0 || page.TotalCount != 3 || page.HasNextPage || page.TotalPages != 1 {
		t.Fatalf("期望空页 totalCount=3 且无下一页，实际为 %+v", page)
	}
}
