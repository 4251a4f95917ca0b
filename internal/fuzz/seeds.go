package fuzztests

import (
	"testing"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB
	maxFuzzInput = 256 << 10
)

var manifestSeeds = []string{
	`<project/>`,
	`<project><properties/></project>`,
	`<?xml version="1.0" encoding="UTF-8"?>
<project>
    <properties>
        <java.version>21</java.version>
        <junit.junit>4.13.2</junit.junit>
    </properties>
    <dependencies>
        <dependency>
            <groupId>junit</groupId>
            <artifactId>junit</artifactId>
            <version>${junit.junit}</version>
            <scope>test</scope>
        </dependency>
        <dependency>
            <groupId>org.slf4j</groupId>
            <artifactId>slf4j-api</artifactId>
            <version>2.0.9</version>
        </dependency>
    </dependencies>
    <build>
        <plugins>
            <plugin>
                <artifactId>maven-surefire-plugin</artifactId>
                <version>3.2.5</version>
            </plugin>
        </plugins>
    </build>
</project>
`,
	"<project>\r\n  <dependencies>\r\n    <dependency><groupId>a</groupId><artifactId>b</artifactId><version>1</version></dependency>\r\n    <dependency><groupId>c</groupId><artifactId>d</artifactId><version>1</version></dependency>\r\n  </dependencies>\r\n</project>\r\n",
	`<project><dependencies><dependency><groupId>a</groupId><artifactId>b</artifactId><version><!-- x -->1</version></dependency></dependencies></project>`,
	`<project><properties><a>1</a><a>2</a></properties><dependencies><dependency><groupId>x</groupId><artifactId>y</artifactId><version>${x.y}</version></dependency></dependencies></project>`,
	`<project><dependencies><dependency><artifactId>orphan</artifactId></dependency></dependencies></project>`,
	`<project><dependencies><dependency><groupId>g</groupId><artifactId>a</artifactId><version/></dependency></dependencies></project>`,
	`<project><dependencies>`,
	`<pom/>`,
}

func addCorpusSeeds(f *testing.F) {
	for _, seed := range manifestSeeds {
		f.Add(clampSeed([]byte(seed)))
	}
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}
