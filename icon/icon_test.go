package icon

import (
	"fmt"
	"testing"

	"github.com/listentui/listentui/key"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func TestGet(t *testing.T) {
	Convey("Every icon should render in every variant", t, func() {
		for _, variant := range AvailableVariants() {
			variant := variant
			for i := Play; i <= Info; i++ {
				i := i
				Convey(fmt.Sprintf("icon %d as %s", i, variant), func() {
					viper.Set(key.IconsVariant, variant)
					So(Get(i), ShouldNotBeEmpty)
				})
			}
		}
	})

	Convey("An unknown variant should render nothing", t, func() {
		viper.Set(key.IconsVariant, "")
		So(Get(Heart), ShouldBeEmpty)
	})

	Convey("An unknown icon should render nothing", t, func() {
		viper.Set(key.IconsVariant, plain)
		So(Get(Icon(-1)), ShouldBeEmpty)
	})
}
